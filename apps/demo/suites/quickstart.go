package suites

import (
	"fmt"
	"net/mail"

	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
)

// Email is a validated email address.
type Email struct {
	address string
}

func ParseEmail(s string) (Email, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return Email{}, fmt.Errorf("%q is not a valid email address", s)
	}
	return Email{address: s}, nil
}

func (e Email) String() string {
	return e.address
}

func testValidEmail() {
	_, err := ParseEmail("user@example.com")
	assertions.Nil(err)
}

func testInvalidEmail() {
	raised := assertions.Throws(func() error {
		_, err := ParseEmail("invalid")
		return err
	})
	assertions.Equal(`"invalid" is not a valid email address`, fmt.Sprint(raised))
}

func testEmailAsString() {
	email, err := ParseEmail("user@example.com")
	assertions.Nil(err)
	assertions.Equal("user@example.com", email.String())
}

func Quickstart() *suite.Node {
	return suite.File("test_email.go", `example\quickstart`,
		suite.Fn(testValidEmail),
		suite.Fn(testInvalidEmail),
		suite.Fn(testEmailAsString),
	)
}
