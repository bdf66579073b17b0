package handlers

import (
	"github.com/sirupsen/logrus"

	"launcher-api/internal/services"
	"launcher-api/internal/token"
)

// RouteGroup registers a set of related routes
type RouteGroup interface {
	Register(r *Router)
}

// HandlerFactory wires the handler groups to their services
type HandlerFactory struct {
	hub     *services.HubService
	codec   token.Codec
	limiter *services.AuthLimiter
	qr      *services.QRService
	logger  *logrus.Logger
}

// NewHandlerFactory creates a new handler factory
func NewHandlerFactory(
	hub *services.HubService,
	codec token.Codec,
	limiter *services.AuthLimiter,
	qr *services.QRService,
	logger *logrus.Logger,
) *HandlerFactory {
	return &HandlerFactory{
		hub:     hub,
		codec:   codec,
		limiter: limiter,
		qr:      qr,
		logger:  logger,
	}
}

// CreateGroups creates every handler group
func (f *HandlerFactory) CreateGroups() []RouteGroup {
	base := NewBaseHandler(f.hub, f.codec, f.logger)

	return []RouteGroup{
		NewAuthHandler(base, f.limiter),
		NewAdminHandler(base),
		NewUserHandler(base),
		NewChatHandler(base),
		NewPremiumHandler(base, f.qr),
		NewBroadcastHandler(base),
		NewHealthHandler(base),
	}
}

// CreateRouter builds the complete route table
func (f *HandlerFactory) CreateRouter() *Router {
	router := NewRouter(f.logger)
	for _, g := range f.CreateGroups() {
		g.Register(router)
	}

	f.logger.Infof("Registered %d API routes", len(router.Routes()))
	return router
}
