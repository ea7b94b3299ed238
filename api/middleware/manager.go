package middleware

import (
	"sync"

	"github.com/MonkyMars/gecho"

	"poolshop_server/structs"
)

type Middleware struct {
	logger *gecho.Logger
	cfg    *structs.Config

	limitersMu sync.Mutex
	limiters   map[string]*clientLimiter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger) *Middleware {
	return &Middleware{
		logger:   logger,
		cfg:      cfg,
		limiters: make(map[string]*clientLimiter),
	}
}
