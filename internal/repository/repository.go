package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres, inmemory) inside this directory.

type Repository interface{}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
