package mood

import (
	"github.com/ZamoritaCR/neurostream/internal/mood/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mood.service",
	fx.Provide(service.NewService),
)
