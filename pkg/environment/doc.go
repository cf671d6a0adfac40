// Package environment resolves the APP_ENV setting.
//
// Parse maps raw values (including the dev, stage and prod aliases) onto the
// Development, Staging and Production constants. The server uses the result
// to pick the logger preset and to warn about insecure production settings.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	log := logger.New(logger.WithEnvironment(env.String(), "totp-auth"))
package environment
