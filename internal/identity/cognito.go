package identity

import (
	"context"
	"errors"
	"fmt"

	"giventake/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// CognitoAPI is the subset of the Cognito client the provider calls.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	AdminConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.AdminConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	ChangePassword(ctx context.Context, params *cognitoidentityprovider.ChangePasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ChangePasswordOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

// KeySetSource resolves the JWKS used to verify Cognito ID tokens.
type KeySetSource interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

// Cognito keeps credentials in a Cognito user pool. Users are confirmed
// on signup so they can log in straight away.
type Cognito struct {
	client     CognitoAPI
	keys       KeySetSource
	jwksURL    string
	clientID   string
	userPoolID string
}

func NewCognito(config *types.Config, client CognitoAPI, keys KeySetSource, jwksURL string) *Cognito {
	return &Cognito{
		client:     client,
		keys:       keys,
		jwksURL:    jwksURL,
		clientID:   config.CognitoClientID,
		userPoolID: config.CognitoUserPoolID,
	}
}

// NewJWKSCache registers the user pool's JWKS endpoint with a refreshing
// cache and returns the cache and the URL it is keyed by.
func NewJWKSCache(ctx context.Context, issuerURL string) (*jwk.Cache, string, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", issuerURL)
	if err := cache.Register(ctx, jwksURL); err != nil {
		return nil, "", fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	return cache, jwksURL, nil
}

func (c *Cognito) SignUp(ctx context.Context, email, password string, attributes map[string]string) (string, error) {
	attrs := []ctypes.AttributeType{
		{Name: aws.String("email"), Value: aws.String(email)},
	}
	for name, value := range attributes {
		if value == "" {
			continue
		}
		attrs = append(attrs, ctypes.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}

	out, err := c.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(c.clientID),
		Username:       aws.String(email),
		Password:       aws.String(password),
		UserAttributes: attrs,
	})
	if err != nil {
		return "", mapSignUpError(err)
	}

	_, err = c.client.AdminConfirmSignUp(ctx, &cognitoidentityprovider.AdminConfirmSignUpInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	if err != nil {
		return "", fmt.Errorf("failed to confirm user: %w", err)
	}

	return aws.ToString(out.UserSub), nil
}

func mapSignUpError(err error) error {
	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return types.ErrEmailExists
	}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return types.NewValidationError("Password does not meet the password policy")
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return types.NewValidationError("Some details are invalid. Please review and try again.")
	}

	return fmt.Errorf("failed to sign up user: %w", err)
}

func mapAuthError(err error) error {
	var notAuthorized *ctypes.NotAuthorizedException
	var notFound *ctypes.UserNotFoundException
	if errors.As(err, &notAuthorized) || errors.As(err, &notFound) {
		return types.ErrInvalidCredentials
	}
	return err
}

func (c *Cognito) SignIn(ctx context.Context, email, password string) (*types.AuthSession, error) {
	out, err := c.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initiate auth: %w", mapAuthError(err))
	}

	return c.session(ctx, out, "")
}

func (c *Cognito) Refresh(ctx context.Context, refreshToken string) (*types.AuthSession, error) {
	out, err := c.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeRefreshTokenAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", mapAuthError(err))
	}

	// Cognito does not rotate refresh tokens on REFRESH_TOKEN_AUTH.
	return c.session(ctx, out, refreshToken)
}

func (c *Cognito) session(ctx context.Context, out *cognitoidentityprovider.InitiateAuthOutput, refreshToken string) (*types.AuthSession, error) {
	result := out.AuthenticationResult
	if result == nil || result.IdToken == nil {
		return nil, fmt.Errorf("auth challenge %q is not supported", out.ChallengeName)
	}

	subject, email, err := c.verify(ctx, aws.ToString(result.IdToken))
	if err != nil {
		return nil, err
	}

	if result.RefreshToken != nil {
		refreshToken = aws.ToString(result.RefreshToken)
	}

	return &types.AuthSession{
		Subject:      subject,
		Email:        email,
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: refreshToken,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// verify checks an ID token against the user pool's JWKS and returns its
// subject and email claims.
func (c *Cognito) verify(ctx context.Context, idToken string) (string, string, error) {
	set, err := c.keys.Lookup(ctx, c.jwksURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(idToken), jwt.WithKeySet(set), jwt.WithValidate(true))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse id token: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return "", "", errors.New("id token has no subject claim")
	}

	var email string
	_ = token.Get("email", &email)

	return subject, email, nil
}

func (c *Cognito) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	_, err := c.client.ChangePassword(ctx, &cognitoidentityprovider.ChangePasswordInput{
		AccessToken:      aws.String(accessToken),
		PreviousPassword: aws.String(currentPassword),
		ProposedPassword: aws.String(newPassword),
	})
	if err != nil {
		var invalidPw *ctypes.InvalidPasswordException
		if errors.As(err, &invalidPw) {
			return types.NewValidationError("Password does not meet the password policy")
		}
		return fmt.Errorf("failed to change password: %w", mapAuthError(err))
	}

	return nil
}

// DeleteUser removes a pool user. A user that is already gone is not an
// error.
func (c *Cognito) DeleteUser(ctx context.Context, email string) error {
	_, err := c.client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	if err != nil {
		var notFound *ctypes.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
