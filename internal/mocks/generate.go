// Package mocks holds gomock doubles for the client's ports.
//
// To regenerate after an interface change, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockStore(ctrl)
//	store.EXPECT().Get(gomock.Any()).Return("token", true)
package mocks

// MockStore: Get, Set
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/dmitrijs2005/dropnshare/internal/client/tokenstore Store

// MockClient: Register, Login, Me, Logout, Upload
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=api_client_mock.go github.com/dmitrijs2005/dropnshare/internal/client/client Client
