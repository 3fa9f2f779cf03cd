package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockUserRepository
	mockTracker *MockTracker
	service     portssvc.UserSvcFacade
	ctx         context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.mockTracker = new(MockTracker)
	suite.service = services.NewUserService(suite.mockRepo, services.WithClock(fixedClock), services.WithEventTracker(suite.mockTracker))
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockTracker.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "ayse").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		_, parseErr := uuid.Parse(u.UserID)
		return parseErr == nil && u.Username == "ayse" && u.CreatedBy == u.UserID &&
			utils.CheckPasswordHash("correct-horse", u.PasswordHash)
	})).Return(nil).Once()
	suite.mockTracker.On("Enqueue", mock.AnythingOfType("string"), "user_registered", mock.Anything).Once()

	user, err := suite.service.CreateUser(suite.ctx, "  Ayse ", "Ayşe Yılmaz", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal("ayse", user.Username)
	suite.Equal("Ayşe Yılmaz", user.Name)
	suite.Equal(testNow, user.CreatedAt)
}

func (suite *UserServiceTestSuite) TestCreateUser_Validation() {
	tests := []struct {
		name                     string
		username, display, passw string
	}{
		{"no username", " ", "Ayse", "correct-horse"},
		{"no name", "ayse", "", "correct-horse"},
		{"short password", "ayse", "Ayse", "short"},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.service.CreateUser(suite.ctx, tc.username, tc.display, tc.passw)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "ayse").Return(&domain.User{UserID: "u-1", Username: "ayse"}, nil).Once()

	_, err := suite.service.CreateUser(suite.ctx, "ayse", "Ayse", "correct-horse")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_LookupFailure() {
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "ayse").Return(nil, dbErr).Once()

	_, err := suite.service.CreateUser(suite.ctx, "ayse", "Ayse", "correct-horse")

	suite.ErrorIs(err, dbErr)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u-1", Username: "ayse", PasswordHash: hash}

	suite.Run("valid credentials", func() {
		suite.mockRepo.On("FindUserByUsername", suite.ctx, "ayse").Return(stored, nil).Once()
		user, err := suite.service.AuthenticateUser(suite.ctx, "AYSE", "correct-horse")
		suite.Require().NoError(err)
		suite.Equal("u-1", user.UserID)
	})

	suite.Run("wrong password", func() {
		suite.mockRepo.On("FindUserByUsername", suite.ctx, "ayse").Return(stored, nil).Once()
		_, err := suite.service.AuthenticateUser(suite.ctx, "ayse", "wrong-horse")
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	})

	suite.Run("unknown user", func() {
		suite.mockRepo.On("FindUserByUsername", suite.ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()
		_, err := suite.service.AuthenticateUser(suite.ctx, "ghost", "correct-horse")
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	})

	suite.Run("deleted user", func() {
		deleted := *stored
		deleted.DeletedAt = ptr(testNow)
		suite.mockRepo.On("FindUserByUsername", suite.ctx, "ayse").Return(&deleted, nil).Once()
		_, err := suite.service.AuthenticateUser(suite.ctx, "ayse", "correct-horse")
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	})
}

func (suite *UserServiceTestSuite) TestDeleteUser() {
	suite.Run("other user is refused", func() {
		err := suite.service.DeleteUser(suite.ctx, "u-2", "u-1")
		suite.ErrorIs(err, apperrors.ErrUnauthorized)
	})

	suite.Run("self delete", func() {
		suite.mockRepo.On("FindUserByID", suite.ctx, "u-1").Return(&domain.User{UserID: "u-1"}, nil).Once()
		suite.mockRepo.On("MarkUserDeleted", suite.ctx, "u-1", testNow, "u-1").Return(nil).Once()
		suite.NoError(suite.service.DeleteUser(suite.ctx, "u-1", "u-1"))
	})
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()
	svc := services.NewUserService(repo)

	user, err := svc.GetUserByID(context.Background(), "missing")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
