package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the prediction API on r and enables JSON 405 responses.
func RegisterRoutes(r *gin.Engine, h *PredictionHandler) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(MethodNotAllowed(r, h.apiVersion))

	r.POST("/predict", h.HandlePredict)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/predict", h.HandlePredict)
		v1.GET("/example", h.HandleExample)
	}
}

// MethodNotAllowed lists the methods registered for the requested path.
func MethodNotAllowed(r *gin.Engine, apiVersion string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var methods []string
		for _, route := range r.Routes() {
			if route.Path == c.Request.URL.Path && !slices.Contains(methods, route.Method) {
				methods = append(methods, route.Method)
			}
		}
		slices.Sort(methods)

		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"message":          "The method is not allowed for the requested URL.",
			"valid_methods":    methods,
			"requested_method": c.Request.Method,
			"api_version":      apiVersion,
		})
	}
}
