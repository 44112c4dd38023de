package v1

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"alumnet-backend/internal/delivery/http/response"
	"alumnet-backend/internal/domain"
	"alumnet-backend/pkg/apperror"
	"alumnet-backend/pkg/form"
	"alumnet-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC    domain.AuthUsecase
	tracker   *security.LoginTracker
	staticDir string
}

func NewAuthHandler(rg *gin.RouterGroup, authUC domain.AuthUsecase, tracker *security.LoginTracker, staticDir string) {
	handler := &AuthHandler{
		authUC:    authUC,
		tracker:   tracker,
		staticDir: staticDir,
	}

	rg.POST("/register", handler.Register)
	rg.POST("/login", handler.Login)
}

// RegisterRequest carries the raw registration payload. PassoutYear,
// PhoneNumber and CollegeName may arrive as a single value or as repeated
// form fields (duplicate input names in the HTML form), so they bind through
// form.Value instead of plain strings.
type RegisterRequest struct {
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirmPassword"`
	UserType        string     `json:"userType"`
	Branch          string     `json:"branch"`
	RollNumber      string     `json:"rollNumber"`
	PassoutYear     form.Value `json:"passoutYear"`
	Company         string     `json:"company"`
	Skills          string     `json:"skills"`
	Experience      string     `json:"experience"`
	PhoneNumber     form.Value `json:"phoneNumber"`
	CollegeName     form.Value `json:"collegeName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a new Student or Alumni account. Accepts JSON or form-encoded bodies; repeated passoutYear/phoneNumber/collegeName fields are collapsed to the first non-blank value.
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req, isJSON, err := h.bindRegister(c)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	in := &domain.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserType:        req.UserType,
		Branch:          req.Branch,
		RollNumber:      req.RollNumber,
		Company:         req.Company,
		Skills:          req.Skills,
		Experience:      req.Experience,
		PassoutYear:     req.PassoutYear.NormalizePtr(),
		PhoneNumber:     req.PhoneNumber.NormalizePtr(),
		CollegeName:     req.CollegeName.NormalizePtr(),
	}

	user, err := h.authUC.Register(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:        security.EventRegistration,
		SubjectType:  "email",
		SubjectValue: user.Email,
		IP:           c.ClientIP(),
		RequestID:    c.GetString("RequestID"),
		Details:      map[string]interface{}{"user_type": user.UserType},
	})

	// Browser form posts get the classic redirect to the landing page; API
	// clients get the created record.
	if !isJSON {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", user)
}

// Login godoc
// @Summary      User Login
// @Description  Authenticate with email and password. Unknown email and wrong password are indistinguishable.
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req, isJSON, err := h.bindLogin(c)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()
	requestID := c.GetString("RequestID")

	if h.tracker != nil && h.tracker.IsBlocked(ctx, req.Email, ip) {
		c.Error(domain.ErrLoginBlocked)
		return
	}

	user, err := h.authUC.Login(ctx, req.Email, req.Password)
	if err != nil {
		if h.tracker != nil && errors.Is(err, domain.ErrInvalidCredentials) {
			h.tracker.RecordFailure(ctx, req.Email, ip, requestID)
		}
		c.Error(err)
		return
	}

	if h.tracker != nil {
		h.tracker.Reset(ctx, req.Email, ip)
	}
	security.DefaultLogger().LogLoginSuccess(ctx, user.Email, ip, requestID)

	// Browser form posts are served the authenticated landing page, matching
	// the classic form flow; API clients get the user record.
	if !isJSON {
		if page := h.page("Home.html"); page != "" {
			c.File(page)
			return
		}
	}
	response.Success(c, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) bindRegister(c *gin.Context) (*RegisterRequest, bool, error) {
	if c.ContentType() == "application/json" {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, true, err
		}
		return &req, true, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, false, err
	}
	pf := c.Request.PostForm
	return &RegisterRequest{
		FullName:        pf.Get("fullName"),
		Email:           pf.Get("email"),
		Password:        pf.Get("password"),
		ConfirmPassword: pf.Get("confirmPassword"),
		UserType:        pf.Get("userType"),
		Branch:          pf.Get("branch"),
		RollNumber:      pf.Get("rollNumber"),
		Company:         pf.Get("company"),
		Skills:          pf.Get("skills"),
		Experience:      pf.Get("experience"),
		PassoutYear:     form.FromPostForm(pf["passoutYear"]),
		PhoneNumber:     form.FromPostForm(pf["phoneNumber"]),
		CollegeName:     form.FromPostForm(pf["collegeName"]),
	}, false, nil
}

func (h *AuthHandler) bindLogin(c *gin.Context) (*LoginRequest, bool, error) {
	if c.ContentType() == "application/json" {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, true, err
		}
		return &req, true, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, false, err
	}
	return &LoginRequest{
		Email:    c.Request.PostForm.Get("email"),
		Password: c.Request.PostForm.Get("password"),
	}, false, nil
}

// page resolves a static page path, or "" when page serving is disabled or
// the file is missing.
func (h *AuthHandler) page(name string) string {
	if h.staticDir == "" {
		return ""
	}
	path := filepath.Join(h.staticDir, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
