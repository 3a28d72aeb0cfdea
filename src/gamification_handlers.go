package main

import (
	"log"
	"net/http"

	"brightaid/src/common"
	"brightaid/src/types"

	"github.com/gin-gonic/gin"
)

func gamificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/donors/:id/gamification", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			record, err := common.GetGamification(types.ACTOR_DONOR, id)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"gamification": record})
		}).
		GET("/ngos/:id/gamification", func(ctx *gin.Context) {
			id, ok := paramId(ctx, "id")
			if !ok {
				return
			}
			record, err := common.GetGamification(types.ACTOR_NGO, id)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"gamification": record})
		}).
		POST("/gamification/refresh", func(ctx *gin.Context) {
			refreshed, err := common.RefreshAllGamifications()
			if err != nil {
				log.Printf("Error refreshing gamifications: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "refreshed": refreshed})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"refreshed": refreshed})
		})
	return g
}
