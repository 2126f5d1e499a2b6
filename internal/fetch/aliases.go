package fetch

import (
	"github.com/odysseus0/internlog/internal/config"
	"github.com/odysseus0/internlog/internal/model"
	"github.com/odysseus0/internlog/internal/store"
)

type Config = config.Config
type Store = store.Store
type Feed = model.Feed
type FetchResult = model.FetchResult
type FetchReport = model.FetchReport
