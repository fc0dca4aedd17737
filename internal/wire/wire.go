//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"GoLoyalty/internal/metrics"

	"github.com/google/wire"
)

func InitializeApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		infraSet,
		notifSet,
		activitySet,
		ProvideRegistry,
		metrics.New,
		ProvideTokenManager,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

func InitializeMigrator() (*Migrator, func(), error) {
	wire.Build(
		infraSet,
		wire.Struct(new(Migrator), "*"),
	)
	return nil, nil, nil
}
