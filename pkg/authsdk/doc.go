/*
Package authsdk is a Go client for the Nusa Lapor authentication service.

Other backend services (reports, articles, hotlines) use it to register and
log in users, and to keep an authenticated Session whose access token is
refreshed before it expires.

	client := authsdk.NewSDKClient("https://auth.nusalapor.id")

	session, err := client.Login(ctx, "warga@example.com", password)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Throttled() {
		// back off for apiErr.WaitSeconds
	}

	profile, err := session.Me(ctx)
	err = session.Logout(ctx)

Failed requests return *APIError carrying the status, the "error" message,
field-level validation messages and, for 429, the wait in seconds.
*/
package authsdk
