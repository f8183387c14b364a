package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/corkboard/corkboard/internal/api/v1"
	"github.com/corkboard/corkboard/internal/auth"
	"github.com/corkboard/corkboard/internal/store/postgres"
	redisstore "github.com/corkboard/corkboard/internal/store/redis"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, cache *redisstore.Store) {
	v1.RegisterMeRoute(api, store)
	v1.RegisterProjectRoutes(api, store)
	v1.RegisterBoardRoutes(api, store, cache)
	v1.RegisterColumnRoutes(api, store, cache)
	v1.RegisterCardRoutes(api, store, cache)
	v1.RegisterLabelRoutes(api, store)
	v1.RegisterCommentRoutes(api, store)
	v1.RegisterAttachmentRoutes(api, store)
	v1.RegisterAuditRoutes(api, store)
}
