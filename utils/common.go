package utils

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/france-ecoenergie/crm_back/models"

	"github.com/gin-gonic/gin"
)

// ContextUserKey clé du contexte gin portant l'utilisateur connecté
const ContextUserKey = "user"

// LoginUser utilisateur connecté
type LoginUser struct {
	ID       uint        `json:"id"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
}

// IsAdmin indique si l'utilisateur connecté est administrateur
func (u *LoginUser) IsAdmin() bool {
	return u != nil && u.Role == models.RoleAdmin
}

// GetUser récupère l'utilisateur connecté depuis le contexte
func GetUser(c *gin.Context) (*LoginUser, error) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, CreateUnauthorizedError()
	}

	claims, ok := v.(*Claims)
	if !ok || claims == nil {
		return nil, CreateUnauthorizedError()
	}

	return &LoginUser{
		ID:       claims.ID,
		Role:     claims.Role,
		Username: claims.Username,
	}, nil
}

// Pagination paramètres de pagination
type Pagination struct {
	Page  int
	Limit int
}

// Offset décalage SQL
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination lit page et limit (50 par défaut, 500 au plus)
func ParsePagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return Pagination{Page: page, Limit: limit}
}

// PaginatedResponse réponse paginée
func PaginatedResponse(c *gin.Context, data interface{}, total int64, p Pagination) {
	limit := int64(p.Limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total": total,
			"page":  p.Page,
			"limit": p.Limit,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// ParseID lit un identifiant numérique dans l'URL
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, CreateBadRequestError(fmt.Sprintf("identifiant invalide: %q", raw))
	}
	return uint(id), nil
}

// ParseOptionalID lit un identifiant facultatif dans la query
func ParseOptionalID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, CreateBadRequestError(fmt.Sprintf("paramètre %s invalide", name))
	}
	v := uint(id)
	return &v, nil
}

// IPAllowed vérifie qu'une adresse figure dans une liste d'IP ou de CIDR séparés par des virgules.
// Une liste vide n'impose aucune restriction.
func IPAllowed(allowList string, remote string) bool {
	if strings.TrimSpace(allowList) == "" {
		return true
	}
	ip := net.ParseIP(strings.TrimSpace(remote))
	if ip == nil {
		return false
	}
	for _, entry := range strings.Split(allowList, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil && network.Contains(ip) {
				return true
			}
			continue
		}
		if allowed := net.ParseIP(entry); allowed != nil && allowed.Equal(ip) {
			return true
		}
	}
	return false
}

// ValidIPList indique si chaque entrée est une IP ou un CIDR valide
func ValidIPList(list string) bool {
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, _, err := net.ParseCIDR(entry); err != nil {
				return false
			}
			continue
		}
		if net.ParseIP(entry) == nil {
			return false
		}
	}
	return true
}
