package identity

import (
	"context"
	"errors"
	"testing"

	"giventake/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	signUpErr  error
	confirmErr error
	authOut    *cognitoidentityprovider.InitiateAuthOutput
	authErr    error
	changeErr  error
	deleteErr  error

	signUpInput  *cognitoidentityprovider.SignUpInput
	confirmed    []string
	authInput    *cognitoidentityprovider.InitiateAuthInput
	deletedUsers []string
}

func (f *fakeCognito) SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	f.signUpInput = params
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &cognitoidentityprovider.SignUpOutput{UserSub: aws.String("sub-123")}, nil
}

func (f *fakeCognito) AdminConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.AdminConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminConfirmSignUpOutput, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	f.confirmed = append(f.confirmed, aws.ToString(params.Username))
	return &cognitoidentityprovider.AdminConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	f.authInput = params
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authOut, nil
}

func (f *fakeCognito) ChangePassword(ctx context.Context, params *cognitoidentityprovider.ChangePasswordInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ChangePasswordOutput, error) {
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	return &cognitoidentityprovider.ChangePasswordOutput{}, nil
}

func (f *fakeCognito) AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletedUsers = append(f.deletedUsers, aws.ToString(params.Username))
	return &cognitoidentityprovider.AdminDeleteUserOutput{}, nil
}

type failingKeys struct{}

func (failingKeys) Lookup(ctx context.Context, u string) (jwk.Set, error) {
	return nil, errors.New("jwks unreachable")
}

func newTestCognito(client *fakeCognito) *Cognito {
	config := &types.Config{
		CognitoClientID:   "client-id",
		CognitoUserPoolID: "pool-id",
	}
	return NewCognito(config, client, failingKeys{}, "https://issuer.example.com/.well-known/jwks.json")
}

func TestSignUpConfirmsUser(t *testing.T) {
	client := &fakeCognito{}
	c := newTestCognito(client)

	sub, err := c.SignUp(context.Background(), "ava@example.com", "Secret123!", map[string]string{
		"given_name": "Ava",
		"phone":      "",
	})
	require.NoError(t, err)

	assert.Equal(t, "sub-123", sub)
	assert.Equal(t, []string{"ava@example.com"}, client.confirmed)
	assert.Equal(t, "client-id", aws.ToString(client.signUpInput.ClientId))
	assert.Len(t, client.signUpInput.UserAttributes, 2, "empty attributes are skipped")
}

func TestSignUpErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, err error)
	}{
		{
			name: "username exists",
			err:  &ctypes.UsernameExistsException{Message: aws.String("exists")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, types.ErrEmailExists)
				assert.ErrorIs(t, err, types.ErrConflict)
			},
		},
		{
			name: "weak password",
			err:  &ctypes.InvalidPasswordException{Message: aws.String("too short")},
			check: func(t *testing.T, err error) {
				var verr *types.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "Password does not meet the password policy", verr.Message)
			},
		},
		{
			name: "invalid parameter",
			err:  &ctypes.InvalidParameterException{Message: aws.String("bad email")},
			check: func(t *testing.T, err error) {
				var verr *types.ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			name: "unknown",
			err:  errors.New("throttled"),
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "failed to sign up user: throttled")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeCognito{signUpErr: tt.err}
			_, err := newTestCognito(client).SignUp(context.Background(), "ava@example.com", "pw", nil)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, client.confirmed)
		})
	}
}

func TestSignUpConfirmFailure(t *testing.T) {
	client := &fakeCognito{confirmErr: errors.New("access denied")}

	_, err := newTestCognito(client).SignUp(context.Background(), "ava@example.com", "pw", nil)
	assert.EqualError(t, err, "failed to confirm user: access denied")
}

func TestSignInInvalidCredentials(t *testing.T) {
	for _, authErr := range []error{
		&ctypes.NotAuthorizedException{Message: aws.String("Incorrect username or password.")},
		&ctypes.UserNotFoundException{Message: aws.String("User does not exist.")},
	} {
		client := &fakeCognito{authErr: authErr}

		_, err := newTestCognito(client).SignIn(context.Background(), "ava@example.com", "wrong")
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
		assert.Equal(t, ctypes.AuthFlowTypeUserPasswordAuth, client.authInput.AuthFlow)
		assert.Equal(t, "ava@example.com", client.authInput.AuthParameters["USERNAME"])
	}
}

func TestSignInUnsupportedChallenge(t *testing.T) {
	client := &fakeCognito{authOut: &cognitoidentityprovider.InitiateAuthOutput{
		ChallengeName: ctypes.ChallengeNameTypeNewPasswordRequired,
	}}

	_, err := newTestCognito(client).SignIn(context.Background(), "ava@example.com", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEW_PASSWORD_REQUIRED")
}

func TestSignInKeySetFailure(t *testing.T) {
	client := &fakeCognito{authOut: &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &ctypes.AuthenticationResultType{
			IdToken:     aws.String("header.payload.signature"),
			AccessToken: aws.String("access"),
		},
	}}

	_, err := newTestCognito(client).SignIn(context.Background(), "ava@example.com", "pw")
	assert.EqualError(t, err, "failed to fetch JWKS: jwks unreachable")
}

func TestRefreshUsesRefreshFlow(t *testing.T) {
	client := &fakeCognito{authErr: &ctypes.NotAuthorizedException{Message: aws.String("Refresh Token has expired")}}

	_, err := newTestCognito(client).Refresh(context.Background(), "refresh-token")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	assert.Equal(t, ctypes.AuthFlowTypeRefreshTokenAuth, client.authInput.AuthFlow)
	assert.Equal(t, "refresh-token", client.authInput.AuthParameters["REFRESH_TOKEN"])
}

func TestChangePasswordErrors(t *testing.T) {
	c := newTestCognito(&fakeCognito{changeErr: &ctypes.NotAuthorizedException{Message: aws.String("Incorrect password")}})
	err := c.ChangePassword(context.Background(), "access", "old", "new")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	c = newTestCognito(&fakeCognito{changeErr: &ctypes.InvalidPasswordException{Message: aws.String("weak")}})
	err = c.ChangePassword(context.Background(), "access", "old", "new")
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.NoError(t, newTestCognito(&fakeCognito{}).ChangePassword(context.Background(), "access", "old", "new"))
}

func TestDeleteUserIgnoresMissing(t *testing.T) {
	client := &fakeCognito{deleteErr: &ctypes.UserNotFoundException{Message: aws.String("gone")}}
	assert.NoError(t, newTestCognito(client).DeleteUser(context.Background(), "ava@example.com"))

	client = &fakeCognito{deleteErr: errors.New("throttled")}
	assert.EqualError(t, newTestCognito(client).DeleteUser(context.Background(), "ava@example.com"), "failed to delete user: throttled")

	client = &fakeCognito{}
	require.NoError(t, newTestCognito(client).DeleteUser(context.Background(), "ava@example.com"))
	assert.Equal(t, []string{"ava@example.com"}, client.deletedUsers)
}
