package auth

import (
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRegisterNewUser(t *testing.T) {
	convey.Convey("Given new user with username, email, role and password", t, func() {
		req := registerAccountRequest{"user", "user@user.com", "user", "Pass!word"}
		accounts := NewAccountRepository()
		svc := newTestService(accounts, &eventsSpy{})
		ctx := context.Background()

		convey.Convey("When user registers", func() {
			view, err := svc.RegisterAccount(ctx, req)

			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the created user has username", func() {
				acc, err := accounts.FindByName(req.Username)

				convey.So(err, convey.ShouldBeNil)
				convey.So(view.ID, convey.ShouldEqual, acc.ID)
				convey.So(view.Username, convey.ShouldEqual, acc.Credentials.Username)
			})

			convey.Convey("And the same username registers again", func() {
				_, err := svc.RegisterAccount(ctx, registerAccountRequest{"user", "other@user.com", "admin", "Other!pw"})

				convey.Convey("Then the second attempt conflicts and only the first account is kept", func() {
					convey.So(err, convey.ShouldEqual, ErrExistingUsername)
					convey.So(accounts.Count(), convey.ShouldEqual, 1)

					acc, err := accounts.FindByName("user")
					convey.So(err, convey.ShouldBeNil)
					convey.So(acc.Credentials.Email, convey.ShouldEqual, "user@user.com")
					convey.So(acc.Role, convey.ShouldEqual, RoleUser)
				})
			})
		})
	})
}

func TestLoginUser(t *testing.T) {
	convey.Convey("Given an existing U", t, func() {
		username := "user"
		accounts := NewAccountRepository()
		svc := newTestService(accounts, &eventsSpy{})
		ctx := context.Background()
		registered, err := svc.RegisterAccount(ctx, registerAccountRequest{username, "user@user.com", "admin", "Pass!word"})

		convey.So(err, convey.ShouldBeNil)
		convey.So(isValidID(string(registered.ID)), convey.ShouldBeTrue)

		convey.Convey("When U provides correct credentials", func() {
			req := validateCredentialsRequest{username, "Pass!word"}

			convey.Convey("And U does validation", func() {
				view, err := svc.ValidateCredentials(ctx, req)
				convey.So(err, convey.ShouldBeNil)

				convey.Convey("Then the U is successfully validated with the stored email and role", func() {
					convey.So(view, convey.ShouldResemble, registered)
					convey.So(view.Role, convey.ShouldEqual, RoleAdmin)
				})
			})
		})

		convey.Convey("When U provides a wrong password", func() {
			stored, _ := accounts.FindByName(username)
			_, err := svc.ValidateCredentials(ctx, validateCredentialsRequest{username, "Wrong!pass"})

			convey.Convey("Then validation fails and the stored hash is unchanged", func() {
				convey.So(err, convey.ShouldEqual, ErrInvalidCredentials)

				after, _ := accounts.FindByName(username)
				convey.So(after.Credentials.PasswordHash, convey.ShouldResemble, stored.Credentials.PasswordHash)
				convey.So(after.Credentials.Salt, convey.ShouldResemble, stored.Credentials.Salt)
			})
		})
	})
}
