package handlers

import (
	"movie-catalog/internal/catalog"
	"movie-catalog/internal/reconciler"
	"movie-catalog/internal/startup"
)

type Handlers struct {
	store          *catalog.Store
	reconciler     *reconciler.Reconciler
	pageSize       int
	fallbackPoster string
	artworkNames   []string
}

func New(store *catalog.Store, rec *reconciler.Reconciler, config *startup.Config) *Handlers {
	return &Handlers{
		store:          store,
		reconciler:     rec,
		pageSize:       config.PageSize,
		fallbackPoster: config.FallbackPoster,
		artworkNames:   config.ArtworkNames,
	}
}
