package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{name: "simple", username: "alice", want: true},
		{name: "with dot and digits", username: "alice.b42", want: true},
		{name: "empty", username: "", want: false},
		{name: "contains delimiter", username: "alice,bob", want: false},
		{name: "delimiter only", username: ",", want: false},
		{name: "contains newline", username: "alice\nbob", want: false},
		{name: "contains carriage return", username: "alice\rbob", want: false},
		{name: "spaces allowed", username: "alice b", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Username(tt.username))
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "too short", password: "abc", want: false},
		{name: "no uppercase", password: "alllowercase1!", want: false},
		{name: "no lowercase", password: "ALLUPPER123!", want: false},
		{name: "no digit", password: "NoDigitsHere!", want: false},
		{name: "no special", password: "NoSpecial123", want: false},
		{name: "acceptable", password: "GoodPass1!", want: true},
		{name: "symbol counts as special", password: "GoodPass1+", want: true},
		{name: "exactly eight", password: "Aa1!bcde", want: true},
		{name: "seven chars with all classes", password: "Aa1!bcd", want: false},
		{name: "empty", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Password(tt.password))
		})
	}
}
