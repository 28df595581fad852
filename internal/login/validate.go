package login

// Field identifies a login input.
type Field int

const (
	UsernameField Field = iota
	PasswordField
)

func (f Field) String() string {
	if f == PasswordField {
		return "password"
	}
	return "username"
}

// Validation is the outcome of checking the credential fields. Errors maps
// each invalid field to its message.
type Validation struct {
	Errors map[Field]string
}

// OK reports whether both fields passed.
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Validate accepts the credentials only when both fields are non-empty.
func Validate(username, password string) Validation {
	v := Validation{Errors: map[Field]string{}}
	if username == "" {
		v.Errors[UsernameField] = UsernameRequired
	}
	if password == "" {
		v.Errors[PasswordField] = PasswordRequired
	}
	return v
}
