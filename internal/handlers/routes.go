package handlers

import (
	"github.com/gin-gonic/gin"
)

// Routes bundles the handlers mounted under /api.
type Routes struct {
	Portfolio  *PortfolioHandler
	HeroSlides *HeroSlideHandler
	Auth       *AuthHandler
	Instagram  *InstagramHandler

	// Admin gates every mutation. LoginLimit, if set, runs before login.
	Admin      gin.HandlerFunc
	LoginLimit gin.HandlerFunc
}

func (rt Routes) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/portfolio", rt.Portfolio.List)
	api.GET("/heroslides", rt.HeroSlides.List)
	api.GET("/instagram", rt.Instagram.Feed)

	login := []gin.HandlerFunc{rt.Auth.Login}
	if rt.LoginLimit != nil {
		login = append([]gin.HandlerFunc{rt.LoginLimit}, login...)
	}
	api.POST("/admin/login", login...)
	api.POST("/admin/register", rt.Auth.Register)

	admin := api.Group("")
	admin.Use(rt.Admin)
	{
		admin.GET("/admin/me", rt.Auth.Me)

		admin.POST("/portfolio", rt.Portfolio.Create)
		admin.PATCH("/portfolio/:id", rt.Portfolio.Update)
		admin.DELETE("/portfolio/:id", rt.Portfolio.Delete)
		admin.DELETE("/portfolio", rt.Portfolio.Clear)

		admin.POST("/heroslides", rt.HeroSlides.Add)
		admin.POST("/heroslides/reorder", rt.HeroSlides.Reorder)
		admin.DELETE("/heroslides/:id", rt.HeroSlides.Remove)
	}
}
