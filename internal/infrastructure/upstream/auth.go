package upstream

import (
	"context"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// AuthGateway talks to the upstream auth endpoints. These are the only
// unauthenticated calls the gateway makes.
type AuthGateway struct {
	c *Client
}

func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type registerRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     []string `json:"role"`
}

func (g *AuthGateway) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	var resp loginResponse
	err := g.c.postJSON(ctx, "auth.login", "/auth/login", nil, loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(resp.Roles))
	for _, r := range resp.Roles {
		roles = append(roles, domain.ParseRole(r))
	}

	return &ports.LoginResult{
		Token: resp.Token,
		Principal: domain.Principal{
			ID:       resp.ID,
			Username: resp.Username,
			Email:    resp.Email,
			Roles:    roles,
		},
	}, nil
}

// Register creates an account upstream. New accounts always start as
// patients; admin accounts are provisioned out-of-band.
func (g *AuthGateway) Register(ctx context.Context, input ports.RegisterInput) error {
	req := registerRequest{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     []string{"patient"},
	}
	return g.c.postJSON(ctx, "auth.register", "/auth/register", nil, req, nil)
}
