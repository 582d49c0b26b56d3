package api

import (
	"net/http"
)

type authorizationOpt struct {
	value string
}

// OAuth2 sets the Authorization header to "<prefix> <token>".
func OAuth2(prefix, token string) *authorizationOpt {
	return &authorizationOpt{value: prefix + " " + token}
}

// ServerKey sets the Authorization header to "key=<key>".
func ServerKey(key string) *authorizationOpt {
	return &authorizationOpt{value: "key=" + key}
}

func (opt *authorizationOpt) Do(client defaultClient, req *http.Request) {
	req.Header.Set("Authorization", opt.value)
}
