package behavior

import (
	"github.com/ZamoritaCR/neurostream/internal/behavior/service"
	"go.uber.org/fx"
)

var Module = fx.Module("behavior.service",
	fx.Provide(service.NewService),
)
