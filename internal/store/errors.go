package store

import "errors"

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrItemExists    = errors.New("item already exists")
	ErrEventNotFound = errors.New("event not found")
	ErrBlobNotFound  = errors.New("blob not found")

	ErrBuildingSQLQuery = errors.New("error building sql query")
	ErrExecutingQuery   = errors.New("error executing query")
	ErrScanningRow      = errors.New("error scanning row")
)
