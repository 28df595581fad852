package login

// User-facing strings.
const (
	UsernameRequired = "Please enter your username."
	PasswordRequired = "Please enter your password."
	CheckEntry       = "Please check your entry."
	SigningIn        = "Signing in..."

	SharedDeviceExplanation = "This device is set up as a shared device. Sign in to MyChart from your personal device."

	FaceIDLabel   = "Use Face ID"
	TouchIDLabel  = "Use Touch ID"
	PasscodeLabel = "Use Passcode"

	screenName = "Login"
)
