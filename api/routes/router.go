package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jiahaoliu/minimall-backend/api/controllers"
	"github.com/jiahaoliu/minimall-backend/api/middleware"
	"github.com/jiahaoliu/minimall-backend/internal/commission"
	"github.com/jiahaoliu/minimall-backend/internal/merchants"
	"github.com/jiahaoliu/minimall-backend/internal/posts"
	"github.com/jiahaoliu/minimall-backend/internal/social"
	"github.com/jiahaoliu/minimall-backend/pkg/config"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	merchantsService merchants.Service,
	commissionService commission.Service,
	socialService social.Service,
	postsService posts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/commission/tiers", controllers.CommissionTiers(commissionService, logg))
		r.Get("/merchants/slots", controllers.MerchantSlots(merchantsService, logg))
		r.Get("/posts", controllers.PostFeed(postsService, logg))
		r.Get("/posts/{postId}", controllers.PostGet(postsService, logg))
		r.Get("/posts/{postId}/comments", controllers.PostCommentList(postsService, logg))
		r.Get("/users/{userId}/posts", controllers.PostUserFeed(postsService, logg))
		r.Get("/users/{userId}/stats", controllers.SocialUserStats(socialService, logg))
		r.Get("/users/{userId}/followers", controllers.SocialFollowers(socialService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/merchants", func(r chi.Router) {
			r.Post("/apply", controllers.MerchantApply(merchantsService, logg))
			r.Get("/application", controllers.MerchantMyApplication(merchantsService, logg))
			r.Get("/me", controllers.MerchantInfo(merchantsService, logg))
		})

		r.Route("/follows", func(r chi.Router) {
			r.Post("/{targetType}/{targetId}", controllers.SocialFollow(socialService, logg))
			r.Delete("/{targetType}/{targetId}", controllers.SocialUnfollow(socialService, logg))
			r.Get("/{targetType}/{targetId}", controllers.SocialIsFollowing(socialService, logg))
			r.Get("/users", controllers.SocialFollowingUsers(socialService, logg))
			r.Get("/stores", controllers.SocialFollowingStores(socialService, logg))
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", controllers.PostCreate(postsService, logg))
			r.Delete("/{postId}", controllers.PostDelete(postsService, logg))
			r.Post("/{postId}/like", controllers.PostLike(postsService, logg))
			r.Delete("/{postId}/like", controllers.PostUnlike(postsService, logg))
			r.Post("/{postId}/collect", controllers.PostCollect(postsService, logg))
			r.Delete("/{postId}/collect", controllers.PostUncollect(postsService, logg))
			r.Post("/{postId}/comments", controllers.PostCommentCreate(postsService, logg))
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/{commentId}/like", controllers.PostCommentLike(postsService, logg))
			r.Delete("/{commentId}/like", controllers.PostCommentUnlike(postsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/merchants", func(r chi.Router) {
			r.Get("/applications", controllers.MerchantListPending(merchantsService, logg))
			r.Post("/applications/{applicationId}/review", controllers.MerchantReview(merchantsService, logg))
		})

		r.Route("/commission", func(r chi.Router) {
			r.Get("/ledgers/{storeId}", controllers.CommissionLedger(commissionService, logg))
			r.Post("/ledgers/{storeId}/sales", controllers.CommissionApplySale(commissionService, logg))
		})
	})

	return r
}
