package ledger

import (
	"github.com/ZamoritaCR/neurostream/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
)
