package handlers

import (
	"net/http"
	"time"

	"newsdesk/pkg/api"
	"newsdesk/pkg/forms"
	"newsdesk/pkg/models"
	"newsdesk/pkg/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Landing(c *gin.Context) {
	h.render(c, http.StatusOK, "landing.html", gin.H{"Title": "Home"})
}

func (h *Handler) LoginPage(c *gin.Context) {
	if s := session.Current(c); s.Authenticated() && s.Role.Valid() && !s.Expired(time.Now()) {
		c.Redirect(http.StatusFound, s.Role.Home())
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Form": forms.LoginForm{}})
}

func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(err)
	}
	form.Normalize()

	if errs := h.validator.Check(&form); errs != nil {
		h.render(c, http.StatusUnprocessableEntity, "login.html", gin.H{"Title": "Login", "Form": form, "Errors": errs})
		return
	}

	res, err := h.api.Login(c.Request.Context(), form.Credentials())
	if err != nil {
		h.logFailure(c, "login failed", err)
		notice(c, session.FlashError, api.Message(err, "Login failed, check your username and password"))
		h.render(c, http.StatusUnauthorized, "login.html", gin.H{"Title": "Login", "Form": forms.LoginForm{Username: form.Username}})
		return
	}
	if !res.Role.Valid() {
		h.log.Warn("login returned unknown role", "role", string(res.Role), "username", form.Username)
		notice(c, session.FlashError, "Your account has no access to this application")
		h.render(c, http.StatusForbidden, "login.html", gin.H{"Title": "Login", "Form": forms.LoginForm{Username: form.Username}})
		return
	}

	if _, err := session.Save(c, session.Session{Token: res.Token, Role: res.Role, Username: form.Username}); err != nil {
		h.logFailure(c, "failed to save session", err)
		notice(c, session.FlashError, "Could not start your session")
		h.render(c, http.StatusInternalServerError, "login.html", gin.H{"Title": "Login", "Form": forms.LoginForm{Username: form.Username}})
		return
	}
	h.log.Info("user logged in", "username", form.Username, "role", string(res.Role))
	h.redirectWithFlash(c, res.Role.Home(), session.FlashSuccess, "Login successful")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Register",
		"Form":  forms.RegisterForm{Role: string(models.RoleUser)},
		"Roles": []models.Role{models.RoleUser, models.RoleAdmin},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var form forms.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(err)
	}
	form.Normalize()

	data := gin.H{
		"Title": "Register",
		"Form":  forms.RegisterForm{Username: form.Username, Role: form.Role},
		"Roles": []models.Role{models.RoleUser, models.RoleAdmin},
	}
	if errs := h.validator.Check(&form); errs != nil {
		data["Errors"] = errs
		h.render(c, http.StatusUnprocessableEntity, "register.html", data)
		return
	}

	if err := h.api.Register(c.Request.Context(), form.Registration()); err != nil {
		h.logFailure(c, "register failed", err)
		notice(c, session.FlashError, api.Message(err, "Registration failed"))
		h.render(c, http.StatusBadRequest, "register.html", data)
		return
	}
	h.redirectWithFlash(c, session.LoginPath, session.FlashSuccess, "Registration successful, please log in")
}

// Logout clears the whole session cookie.
func (h *Handler) Logout(c *gin.Context) {
	username := session.Current(c).Username
	if err := session.Clear(c); err != nil {
		h.logFailure(c, "failed to clear session", err)
	}
	if username != "" {
		h.log.Info("user logged out", "username", username)
	}
	h.redirectWithFlash(c, session.LoginPath, session.FlashSuccess, "You have been logged out")
}

var demoProfile = models.Profile{ID: "demo", Username: "UserDummy", Role: models.RoleAdmin}

func (h *Handler) Profile(c *gin.Context) {
	p := profile(c)
	if p == nil {
		s := session.Current(c)
		if h.demo != nil {
			demo := demoProfile
			p = &demo
			notice(c, session.FlashWarning, "Server is not responding, showing demo profile data")
		} else {
			p = &models.Profile{Username: s.Username, Role: s.Role}
			notice(c, session.FlashWarning, "Profile details are unavailable right now")
		}
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "Profile", "Profile": p})
}
