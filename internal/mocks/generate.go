// Package mocks provides mock implementations of the auditor ports for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the interfaces in
// internal/core. The mocks are generated using go:generate directives and provide a fluent API
// for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockRecordStore(ctrl)
//	store.EXPECT().QueryToday(gomock.Any()).Return(records, nil)
package mocks

// Generate mocks for RecordStore, ExpectationSource and Notifier from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=core_mock.go github.com/target/backup-audit/internal/core RecordStore,ExpectationSource,Notifier
