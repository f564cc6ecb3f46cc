package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
)

func Test_userApi_createUser(t *testing.T) {
	resetDB(t)

	createUser(t, "Marty", "marty", "marty@test.cd", "", user.RoleStudent)

	tests := []httpTest{
		{
			name: "username required", body: marshalObj(t, user.NewUser{Email: "awe@test.cd", Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "username is required"}),
		},
		{
			name: "email required", body: marshalObj(t, user.NewUser{Username: "awe", Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "email is required"}),
		},
		{
			name: "password required", body: marshalObj(t, user.NewUser{Username: "awe", Email: "awe@test.cd"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "password is required"}),
		},
		{
			name: "invalid email", body: marshalObj(t, user.NewUser{Username: "awe", Email: "lol", Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "email is invalid"}),
		},
		{
			name: "invalid username", body: marshalObj(t, user.NewUser{Username: "a w e", Email: "awe@test.cd", Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "username is invalid"}),
		},
		{
			name: "short password", body: marshalObj(t, user.NewUser{Username: "awe", Email: "awe@test.cd", Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "password is invalid"}),
		},
		{
			name: "duplicate username", body: marshalObj(t, user.NewUser{Username: "marty", Email: "awe@test.cd", Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"username": "a user with this username already exists"}),
		},
		{
			name: "duplicate email", body: marshalObj(t, user.NewUser{Username: "awe", Email: "marty@test.cd", Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{
			name: "User created", body: marshalObj(t, user.NewUser{Name: "Awe", Username: "awe", Email: "awe@test.cd", Password: "LolC@t123"}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/createUser"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				// the password hash never leaves the service
				if strings.Contains(rec.Body.String(), "password") {
					t.Error("failed! response leaks the password field")
				}
				var respData struct {
					User user.User `json:"user"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if respData.User.ID.IsZero() {
					t.Error("failed! zero user id")
				}
				if respData.User.Username != "awe" {
					t.Errorf("failed! username = %q", respData.User.Username)
				}
				if respData.User.Role != user.DefaultRole {
					t.Errorf("failed! role = %v; want %v", respData.User.Role, user.DefaultRole)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_login(t *testing.T) {
	resetDB(t)

	createUser(t, "Marty", "marty", "marty@test.cd", "LolC@t123", user.RoleStudent)

	tests := []httpTest{
		{
			name: "username required", body: marshalObj(t, user.Credentials{Password: "LolC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "username is required"}),
		},
		{
			name: "password required", body: marshalObj(t, user.Credentials{Username: "marty"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "password is required"}),
		},
		{
			name: "unknown user", body: marshalObj(t, user.Credentials{Username: "docbrown", Password: "LolC@t123"}),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "user not found"}),
		},
		{
			name: "wrong password", body: marshalObj(t, user.Credentials{Username: "marty", Password: "WrongC@t1"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "wrong password"}),
		},
		{
			name: "Logged in", body: marshalObj(t, user.Credentials{Username: "marty", Password: "LolC@t123"}),
			wantCode: http.StatusOK,
		},
		{
			name: "Username case-insensitive", body: marshalObj(t, user.Credentials{Username: "MARTY", Password: "LolC@t123"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_resetPassword(t *testing.T) {
	resetDB(t)

	marty := createUser(t, "Marty", "marty", "marty@test.cd", "", user.RoleStudent)
	successData := marshalObj(t, echoapi.SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	type extraTest struct {
		emailSent bool
	}
	tests := []httpTest{
		{
			name: "email required", wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "email is required"}),
		},
		{
			name: "invalid email", body: marshalObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "email is invalid"}),
		},
		{
			// an unknown email gets the same response, but no email goes out
			name: "unknown email", body: marshalObj(t, echoapi.PasswordResetRequest{Email: "lol@test.cd"}),
			wantCode: http.StatusOK, wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", body: marshalObj(t, echoapi.PasswordResetRequest{Email: marty.Email}),
			wantCode: http.StatusOK, wantData: successData, extra: extraTest{emailSent: true},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-reset"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if extra, ok := tt.extra.(extraTest); ok {
				if extra.emailSent {
					if len(emailsvc.SentMessages) != 1 {
						t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
					}
					msg := emailsvc.SentMessages[0]
					if msg.To[0].Address != marty.Email {
						t.Errorf("failed! To = %v; want %v", msg.To[0].Address, marty.Email)
					}
					if !strings.Contains(msg.Body, "/password-reset?uid=") {
						t.Errorf("failed! body does not contain the reset link: %q", msg.Body)
					}
				} else if len(emailsvc.SentMessages) > 0 {
					t.Errorf("failed! len(SentMessages) = %d; want 0", len(emailsvc.SentMessages))
				}
			}
		})
	}
}

func Test_userApi_confirmPasswordReset(t *testing.T) {
	resetDB(t)

	marty := createUser(t, "Marty", "marty", "marty@test.cd", "", user.RoleStudent)
	validUID := user.EncodeUID(marty)
	validToken, err := user.MakeToken(marty, conf)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	user.NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := user.MakeToken(marty, conf)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	user.NowFunc = time.Now // reset

	tests := []httpTest{
		{
			name: "token required", body: marshalObj(t, user.ResetUserPassword{UID: validUID, Password: "NewC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "token is required"}),
		},
		{
			name: "uid required", body: marshalObj(t, user.ResetUserPassword{Token: validToken, Password: "NewC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "uid is required"}),
		},
		{
			name: "password required", body: marshalObj(t, user.ResetUserPassword{Token: validToken, UID: validUID}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "password is required"}),
		},
		{
			name: "invalid uid", body: marshalObj(t, user.ResetUserPassword{Token: validToken, UID: "bG9s", Password: "NewC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "invalid token", body: marshalObj(t, user.ResetUserPassword{Token: "HE4TS-sigsig-sig", UID: validUID, Password: "NewC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "expired token", body: marshalObj(t, user.ResetUserPassword{Token: expiredToken, UID: validUID, Password: "NewC@t123"}),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "token expired"}),
		},
		{
			name: "valid token", body: marshalObj(t, user.ResetUserPassword{Token: validToken, UID: validUID, Password: "NewC@t123"}),
			wantCode: http.StatusOK, wantData: marshalObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-reset-confirm"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				refreshed, err := usrRepo.GetUserByID(context.Background(), marty.ID)
				if err != nil {
					t.Fatalf("GetUserByID(): %v", err)
				}
				if err = refreshed.CheckPassword("NewC@t123"); err != nil {
					t.Error("failed to set the new password")
				}
			}
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	resetDB(t)

	marty := createUser(t, "Marty", "marty", "marty@test.cd", "", user.RoleStudent)

	// a token whose original issuance is past the refresh window
	staleOrigIat := time.Now().Add(-2 * conf.Server.JWTRefreshExpirationDelta).Unix()
	unrefreshableToken, err := echoapi.GenerateToken(echoapi.GetUserClaims(marty, conf, staleOrigIat), conf)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Refresh period expired", token: unrefreshableToken,
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, marty), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
