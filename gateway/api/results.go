package api

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/carbonx-fi/avs/ledger"
)

// Info returns the ledger instance identity and current position.
func (s *Server) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ledgerId": s.Ledger.ID().Hex(),
		"height":   s.Ledger.CurrentHeight(),
	})
}

// Events serves task notifications over the half-open range (from, to],
// window-capped by the ledger.
func (s *Server) Events(c *gin.Context) {
	from, err := strconv.ParseUint(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from position"})
		return
	}
	to, err := strconv.ParseUint(c.DefaultQuery("to", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to position"})
		return
	}

	evts, served := s.Ledger.Events(from, to)
	c.JSON(http.StatusOK, gin.H{"events": evts, "to": served})
}

// IdentityResult returns the latest identity result for a subject along
// with its live tier; with ?min= it also answers the hasValid predicate.
func (s *Server) IdentityResult(c *gin.Context) {
	subjectHex := c.Param("subject")
	if !common.IsHexAddress(subjectHex) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject address"})
		return
	}
	subject := common.HexToAddress(subjectHex)

	res, err := s.Ledger.GetIdentityResult(subject)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}

	body := gin.H{
		"result":       res,
		"currentLevel": uint8(s.Ledger.CurrentLevel(subject)),
	}
	if minStr := c.Query("min"); minStr != "" {
		min, err := strconv.ParseUint(minStr, 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min level"})
			return
		}
		body["hasValid"] = s.Ledger.HasValid(subject, ledger.Level(min))
	}
	c.JSON(http.StatusOK, body)
}

// ProjectResult returns the result committed for one project task.
func (s *Server) ProjectResult(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	res, err := s.Ledger.GetProjectResult(taskID)
	if err != nil {
		c.JSON(httpStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Operator reports whether an address is currently registered.
func (s *Server) Operator(c *gin.Context) {
	addrHex := c.Param("address")
	if !common.IsHexAddress(addrHex) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid operator address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"registered": s.Ledger.IsOperator(common.HexToAddress(addrHex)),
	})
}
