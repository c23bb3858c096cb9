package verification

import "github.com/google/wire"

var Set = wire.NewSet(
	NewGormStore,
	wire.Bind(new(Store), new(*GormStore)),
	NewController,
	NewJSONHandler,
)
