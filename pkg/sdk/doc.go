/*
Package sdk is a Go client for the Tradefair API.

A Client talks to the backend gateway. It needs the base URL and the public API key,
which every request carries in the apikey header:

	client, err := sdk.NewClientFromEnv() // TRADEFAIR_URL, TRADEFAIR_API_KEY
	if err != nil {
		log.Fatal(err)
	}

A SessionStore holds the signed-in user for an application and notifies subscribers
whenever the session changes:

	store := sdk.NewSessionStore(client)
	unsubscribe := store.Subscribe(func(ev sdk.AuthEvent) {
		log.Printf("%s: %v", ev.Type, ev.User)
	})
	defer unsubscribe()

	if _, err := store.SignIn(ctx, "ada@example.com", "secret"); err != nil {
		log.Fatal(err)
	}

	reg, conflict, err := store.Register(ctx, conferenceID)
	if conflict != nil {
		// Already attending conflict.ExistingConference at the same time.
		outcome, err := store.Replace(ctx, conflict.ExistingConference.ID, conferenceID)
		...
	}

A store created from a stored token restores the session with Bootstrap. When the
profile cannot be loaded the user stays signed in without one.

SessionStore is safe for concurrent use. Observers run outside the store's lock, in the
goroutine that changed the session.
*/
package sdk
