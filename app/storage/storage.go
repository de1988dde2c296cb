// Package storage provides a storage for detection history in sql databases.
// The database engine is a wrapper around sqlx.DB, see engine package.
// Each table is represented by a struct, and each struct has methods to work with the table.
package storage
