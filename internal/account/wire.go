package account

import "github.com/google/wire"

var Set = wire.NewSet(
	NewGormStorage,
	wire.Bind(new(Storage), new(*GormStorage)),
	wire.Bind(new(Provider), new(*GormStorage)),
	NewService,
)
