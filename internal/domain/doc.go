// Package domain contains the core business entities of the Inkwell
// application and their validation rules. Domain types are persistence
// agnostic: they carry no database concerns beyond field shapes that the
// store layer maps onto columns.
package domain
