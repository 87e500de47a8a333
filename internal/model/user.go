// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents an account that owns generated code.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize this
// struct, so a User marshals straight into the wire shape the frontend expects:
//
//	{"id":1,"username":"DemoUser","email":"demo@test.com","createdAt":"..."}
//
// WHY ID int64?
// The database assigns ids from an AUTOINCREMENT column, and SQLite rowids are
// 64-bit integers. int64 matches what sql.Result.LastInsertId() returns, so
// there's no conversion anywhere in the write path.
//
// Email is UNIQUE in the database — seeding finds-or-creates by email, so calling
// the seed endpoint twice yields the same row both times.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
