package router

import (
	"tube-go/internal/api/handler"
	"tube-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	channelHandler *handler.ChannelHandler,
	videoHandler *handler.VideoHandler,
	commentHandler *handler.CommentHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	likeHandler *handler.LikeHandler,
	searchHandler *handler.SearchHandler,
	adminMiddleware gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		authRequired := auth.Group("", middleware.AuthRequired())
		{
			authRequired.POST("/logout", authHandler.Logout)
			authRequired.GET("/me", authHandler.Me)
		}
	}

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		users.GET("/:id", userHandler.GetUser)

		usersAuth := users.Group("", middleware.AuthRequired())
		{
			usersAuth.PUT("/:id", userHandler.UpdateUser)
			usersAuth.DELETE("/:id", userHandler.DeleteAccount)

			// 管理员接口
			admin := usersAuth.Group("", adminMiddleware)
			{
				admin.GET("", userHandler.ListUsers)
			}
		}
	}

	// --- 频道模块 ---
	channels := v1.Group("/channels")
	{
		// 公开接口（不需要登录）
		channels.GET("/:id", channelHandler.GetByID)
		channels.GET("/handle/:handle", channelHandler.GetByHandle)
		channels.GET("/:id/videos", channelHandler.ListVideos)

		channelsAuth := channels.Group("", middleware.AuthRequired())
		{
			channelsAuth.POST("", channelHandler.Create)
			channelsAuth.PUT("/:id", channelHandler.Update)
			channelsAuth.DELETE("/:id", channelHandler.Delete)
			channelsAuth.POST("/:id/image", channelHandler.UploadImage)

			// 订阅
			channelsAuth.POST("/:id/subscribe", subscriptionHandler.Subscribe)
			channelsAuth.DELETE("/:id/subscribe", subscriptionHandler.Unsubscribe)
			channelsAuth.GET("/:id/subscribe", subscriptionHandler.GetStatus)
			channelsAuth.GET("/:id/subscribers", subscriptionHandler.ListSubscribers)
		}
	}

	// --- 订阅模块 ---
	subscriptions := v1.Group("/subscriptions", middleware.AuthRequired())
	{
		subscriptions.GET("", subscriptionHandler.ListSubscriptions)
		subscriptions.POST("/batch-status", subscriptionHandler.BatchGetStatus)
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		// 公开接口（不需要登录，详情页可选登录用于播放去重）
		videos.GET("/feed", videoHandler.GetFeed)
		videos.GET("/:id", middleware.OptionalAuth(), videoHandler.GetDetail)
		videos.GET("/:id/comments", commentHandler.ListByVideo)

		videosAuth := videos.Group("", middleware.AuthRequired())
		{
			videosAuth.POST("/upload", videoHandler.Upload)
			videosAuth.GET("/my/list", videoHandler.GetMyVideos)
			videosAuth.PUT("/:id", videoHandler.UpdateVideo)
			videosAuth.DELETE("/:id", videoHandler.DeleteVideo)

			// 点赞
			videosAuth.POST("/:id/like", likeHandler.Like)
			videosAuth.DELETE("/:id/like", likeHandler.Unlike)
			videosAuth.GET("/:id/like", likeHandler.GetStatus)

			// 评论
			videosAuth.POST("/:id/comments", commentHandler.Create)
		}
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments")
	{
		comments.GET("/:id/replies", commentHandler.ListReplies)

		commentsAuth := comments.Group("", middleware.AuthRequired())
		{
			commentsAuth.PUT("/:id", commentHandler.Update)
			commentsAuth.DELETE("/:id", commentHandler.Delete)
			commentsAuth.GET("/my/list", commentHandler.ListMine)
		}
	}

	// --- 点赞模块 ---
	likes := v1.Group("/likes", middleware.AuthRequired())
	{
		likes.GET("/videos", likeHandler.ListLikedVideos)
		likes.POST("/batch-status", likeHandler.BatchGetStatus)
	}

	// --- 搜索模块 ---
	search := v1.Group("/search")
	{
		search.GET("/videos", searchHandler.SearchVideos)

		searchAdmin := search.Group("", middleware.AuthRequired(), adminMiddleware)
		{
			searchAdmin.POST("/sync", searchHandler.SyncAll)
		}
	}
}
