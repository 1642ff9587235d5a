// Package services defines the error taxonomy and context annotations shared
// by the migration stages. Errors carry a scope marker so stage drivers can
// decide explicitly whether to continue with the next record, roll back the
// current batch, or skip an unavailable source.
package services
