package router

import (
	"sekaiDeckRecommend/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	api.POST("/recommend", handler.Recommend)
	api.POST("/music_leaderboard", handler.MusicLeaderboard)
	api.POST("/cache_userdata", handler.CacheUserdata)
	api.POST("/update_data", handler.UpdateData)
	api.GET("/health", handler.Health)
}
