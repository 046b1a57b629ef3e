package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/db"
)

func HealthCheck(c *gin.Context) {
	status, code := "ok", http.StatusOK

	if err := db.Ping(); err != nil {
		log.Printf("Health check: database unreachable: %v", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"message":   "ProjectDesk is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
