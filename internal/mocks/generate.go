// Package mocks provides gomock implementations of the ports declared in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockFileJobRepository(ctrl)
//	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=file_job_repository_mock.go github.com/target/bayflow/internal/core FileJobRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=object_store_mock.go github.com/target/bayflow/internal/core ObjectStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=partner_config_store_mock.go github.com/target/bayflow/internal/core PartnerConfigStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=broadcaster_mock.go github.com/target/bayflow/internal/core Broadcaster
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=file_arrival_enqueuer_mock.go github.com/target/bayflow/internal/core FileArrivalEnqueuer
