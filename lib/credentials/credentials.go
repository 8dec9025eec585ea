// Package credentials reads login credentials from a two line file: the
// username on the first line and the password on the second.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMalformed = errors.New("credentials file must contain a username and a password line")

// Error is returned when the credentials could not be read at all.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot get username/password from %s: %s", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Credentials struct {
	Username string
	Password string
}

// String never includes the password.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Username: %q}", c.Username)
}

func Parse(r io.Reader) (Credentials, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for len(lines) < 2 && scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Credentials{}, err
	}
	if len(lines) < 2 {
		return Credentials{}, ErrMalformed
	}
	return Credentials{Username: lines[0], Password: lines[1]}, nil
}

func Load(path string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return Credentials{}, &Error{Path: path, Err: err}
	}
	defer f.Close()

	creds, err := Parse(f)
	if err != nil {
		return Credentials{}, &Error{Path: path, Err: err}
	}
	return creds, nil
}
