package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/config"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
)

func newTestAuthService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryDays: 7}
	return NewAuthService(repo, cfg), repo
}

func patientInput() RegisterInput {
	return RegisterInput{
		Email:    "alice@example.com",
		Password: "secret123",
		Name:     "Alice Smith",
		Role:     "patient",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newTestAuthService()

	res, err := service.Register(context.Background(), patientInput())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "patient", res.User.Role)

	login, err := service.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	claims, err := service.VerifyToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, "patient", claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newTestAuthService()

	cases := map[string]func(*RegisterInput){
		"bad email":      func(in *RegisterInput) { in.Email = "not-an-email" },
		"short password": func(in *RegisterInput) { in.Password = "abc" },
		"missing name":   func(in *RegisterInput) { in.Name = "" },
		"bad role":       func(in *RegisterInput) { in.Role = "admin" },
		"doctor without specialization": func(in *RegisterInput) {
			in.Role = "doctor"
			in.Specialization = ""
		},
	}

	for name, mutate := range cases {
		in := patientInput()
		mutate(&in)
		_, err := service.Register(context.Background(), in)
		assert.ErrorIs(t, err, healthcare_errors.ErrInvalidInput, name)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newTestAuthService()

	_, err := service.Register(context.Background(), patientInput())
	require.NoError(t, err)

	_, err = service.Register(context.Background(), patientInput())
	assert.ErrorIs(t, err, healthcare_errors.ErrAlreadyExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _ := newTestAuthService()

	_, err := service.Register(context.Background(), patientInput())
	require.NoError(t, err)

	// Wrong password and unknown account fail the same way.
	_, err = service.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, healthcare_errors.ErrUnauthorized)

	_, err = service.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, healthcare_errors.ErrUnauthorized)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service, _ := newTestAuthService()

	_, err := service.VerifyToken("")
	assert.ErrorIs(t, err, healthcare_errors.ErrUnauthorized)

	_, err = service.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, healthcare_errors.ErrUnauthorized)
}

func TestGetDoctors(t *testing.T) {
	service, _ := newTestAuthService()

	doctor := RegisterInput{
		Email:          "sarah@example.com",
		Password:       "secret123",
		Name:           "Sarah Johnson",
		Role:           "doctor",
		Specialization: "Cardiology",
	}
	_, err := service.Register(context.Background(), doctor)
	require.NoError(t, err)
	_, err = service.Register(context.Background(), patientInput())
	require.NoError(t, err)

	doctors, err := service.GetDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Sarah Johnson", doctors[0].Name)
	assert.Equal(t, "Cardiology", doctors[0].Specialization)
}
