package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/api-go/logger"
	"github.com/postboard/api-go/models"
	"github.com/postboard/api-go/types"
	"github.com/postboard/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenIssuer) *AuthController {
	return &AuthController{DB: db, Tokens: tokens}
}

// Register godoc
// @Summary Sign up
// @Tags users
// @Accept json
// @Produce json
// @Param user body types.RegisterRequest true "New user"
// @Success 201 {object} StandardResponse
// @Router /users [post]
func (ac *AuthController) Register(c *gin.Context) {
	var input types.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Could not hash password"})
		return
	}

	user := models.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hashedPassword),
	}

	if err := ac.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Username or email already exists"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    userInfo(&user),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input types.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ac.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	accessToken, err := ac.Tokens.IssueAccess(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	refreshToken, expires, err := ac.Tokens.IssueRefresh(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	stored := models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: expires,
	}
	if err := ac.DB.WithContext(c.Request.Context()).Create(&stored).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userInfo(&user),
	})
}

// RefreshToken swaps a stored refresh token for a new token pair. The old
// refresh token stops working.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input types.RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := ac.Tokens.Parse(input.RefreshToken, utils.RefreshToken); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	ctx := c.Request.Context()
	db := ac.DB.WithContext(ctx)

	var refreshToken models.RefreshToken
	if err := db.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	if refreshToken.Expired(time.Now()) {
		if err := db.Delete(&refreshToken).Error; err != nil {
			logger.From(ctx).Warn("could not delete expired refresh token", "error", err)
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token expired"})
		return
	}

	var user models.User
	if err := db.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not found"})
		return
	}

	accessToken, err := ac.Tokens.IssueAccess(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	newRefreshToken, expires, err := ac.Tokens.IssueRefresh(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = expires
	if err := db.Save(&refreshToken).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         userInfo(&user),
	})
}

func userInfo(user *models.User) types.UserInfo {
	return types.UserInfo{ID: user.ID, Username: user.Username, Email: user.Email}
}
