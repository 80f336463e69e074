// Package service contains the application use cases that coordinate domain
// objects and the store interfaces: deck and card management and learner
// progress. Flashcard review sessions live in the review subpackage and
// token handling in auth.
//
// Services receive their stores through constructor injection and run every
// multi-row write through a store.UnitOfWork, so related changes commit or
// roll back together. Expected conditions are reported with the sentinel
// errors in errors.go; unexpected failures are wrapped with context and
// mapped to status codes by the API layer.
package service
