package model

// Package model contains domain models shared by the repository, service and HTTP layers.
// Struct tags describe the column mapping for both the sqlx and gorm backends.
