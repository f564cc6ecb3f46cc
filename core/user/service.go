package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schema"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("user not found")
	ErrWrongPassword  = core.NewValidationError(errors.New("wrong password"))
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrEmailExists    = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id primitive.ObjectID) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo   Repository
		schema *schema.Validator
		mail   core.EmailService
		conf   *core.Config
	}
)

func NewService(repo Repository, sv *schema.Validator, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, schema: sv, mail: mailSvc, conf: conf}
}

func (svc *Service) checkUniqueness(ctx context.Context, uname, email string) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, uname, email); err != nil {
		switch err {
		case ErrUsernameExists:
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		case ErrEmailExists:
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		default:
			return err
		}
	}
	return nil
}

// Create registers a new user with the default role. The password is hashed
// irreversibly before storage and never leaves this package in clear.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.schema); err != nil {
		return User{}, err
	}
	if err := svc.checkUniqueness(ctx, nu.Username, nu.Email); err != nil {
		return User{}, err
	}
	usr := User{
		Name:     nu.Name,
		Username: nu.Username,
		Email:    nu.Email,
		Role:     DefaultRole,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

// Authenticate verifies credentials and returns the matching user.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	if err := creds.Validate(svc.schema); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrWrongPassword
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

// RequestPasswordReset emails a time-boxed reset token to the account owner.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	token, err := MakeToken(usr, svc.conf)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf(
		"%s/password-reset?uid=%s&token=%s",
		svc.conf.FrontendBaseURL, EncodeUID(usr), token,
	)
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: fmt.Sprintf("Password reset on %s", svc.conf.AppName),
		Body: fmt.Sprintf(
			"You requested a password reset for your %s account.\n\n"+
				"Please follow this link to choose a new password:\n%s\n\n"+
				"If it was not you, you can safely ignore this email.",
			svc.conf.AppName, resetURL,
		),
	})
	return nil
}

// ResetPassword verifies the emailed token and sets the new password.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	if err := rp.Validate(svc.schema); err != nil {
		return err
	}
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err = verifyToken(usr, rp.Token, svc.conf); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}
