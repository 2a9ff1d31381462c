package router

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"
	"github.com/wampkit/anonauth/client"
	"github.com/wampkit/anonauth/router/auth"
	"github.com/wampkit/anonauth/wamp"
)

const (
	testRealm         = wamp.URI("nexus.test.realm")
	testAuthenticator = wamp.URI("nexus.test.authenticate")
)

var logger = log.New(ioutil.Discard, "", 0)

func testConfig() *Config {
	return &Config{
		RealmConfigs: []*RealmConfig{
			{
				URI:   testRealm,
				Roles: []string{"anonymous", "user", "proxied"},
				Anonymous: &auth.Config{
					Type: auth.ModeStatic,
				},
				AnonymousProxy: &auth.Config{
					Type: auth.ModeStatic,
					Role: "proxied",
				},
			},
			{
				URI:   "nexus.test.dynamic",
				Roles: []string{"user"},
				Anonymous: &auth.Config{
					Type:          auth.ModeDynamic,
					Authenticator: testAuthenticator,
				},
			},
			{
				URI:   "nexus.test.other",
				Roles: []string{"proxied"},
			},
		},
		HelloTimeout: Duration(200 * time.Millisecond),
	}
}

func newTestRouter(t *testing.T, callers auth.CallerFactory) *Router {
	r, err := NewRouter(testConfig(), callers, logger)
	require.NoError(t, err)
	return r
}

func requireWelcome(t *testing.T, msg wamp.Message) *wamp.Welcome {
	welcome, ok := msg.(*wamp.Welcome)
	require.True(t, ok, "expected WELCOME, got %s: %+v", msg.MessageType(), msg)
	return welcome
}

func requireAbort(t *testing.T, msg wamp.Message, reason wamp.URI) *wamp.Abort {
	abort, ok := msg.(*wamp.Abort)
	require.True(t, ok, "expected ABORT, got %s: %+v", msg.MessageType(), msg)
	require.Equal(t, reason, abort.Reason)
	return abort
}

func TestHelloAnonymousDefault(t *testing.T) {
	r := newTestRouter(t, nil)

	// No authmethods means anonymous.
	msg := r.Hello(context.Background(), &wamp.Hello{Realm: testRealm}, Attachment{})
	welcome := requireWelcome(t, msg)
	require.NotZero(t, welcome.ID)
	require.Equal(t, "anonymous", wamp.OptionString(welcome.Details, "authmethod"))
	require.Equal(t, "anonymous", wamp.OptionString(welcome.Details, "authrole"))
	require.Equal(t, "static", wamp.OptionString(welcome.Details, "authprovider"))
	require.NotEmpty(t, wamp.OptionString(welcome.Details, "authid"))
	require.Contains(t, welcome.Details, "roles")
}

func TestHelloNoRealm(t *testing.T) {
	r := newTestRouter(t, nil)

	requireAbort(t, r.Hello(context.Background(), &wamp.Hello{}, Attachment{}),
		wamp.ErrNoSuchRealm)
	abort := requireAbort(t, r.Hello(context.Background(), &wamp.Hello{Realm: "nexus.nowhere"}, Attachment{}),
		wamp.ErrNoSuchRealm)
	require.Contains(t, wamp.OptionString(abort.Details, "message"), "nexus.nowhere")
}

func TestHelloNoAuthMethod(t *testing.T) {
	r := newTestRouter(t, nil)

	hello := &wamp.Hello{
		Realm:   testRealm,
		Details: wamp.Dict{"authmethods": []string{"ticket", "wampcra"}},
	}
	requireAbort(t, r.Hello(context.Background(), hello, Attachment{}), wamp.ErrNoAuthMethod)

	// Realm without any authenticator.
	hello = &wamp.Hello{Realm: "nexus.test.other"}
	requireAbort(t, r.Hello(context.Background(), hello, Attachment{}), wamp.ErrNoAuthMethod)
}

func TestHelloProxyUntrusted(t *testing.T) {
	r := newTestRouter(t, nil)

	hello := &wamp.Hello{
		Realm: testRealm,
		Details: wamp.Dict{
			"authmethods": []string{"anonymous-proxy"},
			"authextra":   wamp.Dict{auth.ProxyAuthIDKey: "mallory"},
		},
	}
	requireAbort(t, r.Hello(context.Background(), hello, Attachment{}), wamp.ErrNoAuthMethod)

	// Falls back to the next method offered by the client.
	hello.Details["authmethods"] = []string{"anonymous-proxy", "anonymous"}
	welcome := requireWelcome(t, r.Hello(context.Background(), hello, Attachment{}))
	require.Equal(t, "anonymous", wamp.OptionString(welcome.Details, "authmethod"))
}

func TestHelloProxyTrusted(t *testing.T) {
	r := newTestRouter(t, nil)

	hello := &wamp.Hello{
		Realm: testRealm,
		Details: wamp.Dict{
			"authmethods": wamp.List{"anonymous-proxy"},
			"authextra": wamp.Dict{
				auth.ProxyAuthIDKey:    "carol",
				auth.ProxyAuthRealmKey: "nexus.test.other",
			},
		},
	}
	welcome := requireWelcome(t, r.Hello(context.Background(), hello, Attachment{TrustedProxy: true}))
	require.Equal(t, "anonymous-proxy", wamp.OptionString(welcome.Details, "authmethod"))
	require.Equal(t, "proxied", wamp.OptionString(welcome.Details, "authrole"))
	require.Equal(t, "nexus.test.other", wamp.OptionString(welcome.Details, "realm"))
}

func TestHelloDynamic(t *testing.T) {
	defer leaktest.Check(t)()

	callers := client.NewLocalCaller(logger)
	err := callers.Register(testAuthenticator, func(ctx context.Context, args wamp.List, kwargs wamp.Dict) *client.InvokeResult {
		details, _ := wamp.AsDict(args[2])
		transport, _ := wamp.AsDict(details["transport"])
		if wamp.OptionString(transport, "peer") != "tcp4:127.0.0.1:9999" {
			return &client.InvokeResult{Err: wamp.ErrNotAuthorized, Args: wamp.List{"unknown peer"}}
		}
		return &client.InvokeResult{Args: wamp.List{
			wamp.Dict{"authid": "bob", "role": "user", "extra": wamp.Dict{}},
		}}
	})
	require.NoError(t, err)
	r := newTestRouter(t, func(wamp.URI) (auth.Caller, error) { return callers, nil })

	hello := &wamp.Hello{Realm: "nexus.test.dynamic"}
	att := Attachment{Transport: wamp.Dict{"peer": "tcp4:127.0.0.1:9999"}}
	welcome := requireWelcome(t, r.Hello(context.Background(), hello, att))
	require.Equal(t, "bob", wamp.OptionString(welcome.Details, "authid"))
	require.Equal(t, "user", wamp.OptionString(welcome.Details, "authrole"))
	require.Equal(t, "dynamic", wamp.OptionString(welcome.Details, "authprovider"))

	att.Transport["peer"] = "tcp4:10.0.0.1:1234"
	abort := requireAbort(t, r.Hello(context.Background(), hello, att), wamp.ErrNotAuthorized)
	require.Equal(t, "unknown peer", wamp.OptionString(abort.Details, "message"))
}

// The authenticator below trusts the authid in the session details.  A
// client without the proxy method cannot put one there.
func TestHelloDynamicClaimedIdentity(t *testing.T) {
	defer leaktest.Check(t)()

	callers := client.NewLocalCaller(logger)
	err := callers.Register(testAuthenticator, func(ctx context.Context, args wamp.List, kwargs wamp.Dict) *client.InvokeResult {
		details, _ := wamp.AsDict(args[2])
		if wamp.OptionString(details, "authid") == "root" {
			return &client.InvokeResult{Args: wamp.List{
				wamp.Dict{"authid": "root", "role": "admin", "realm": "nexus.test.other"},
			}}
		}
		return &client.InvokeResult{Args: wamp.List{"user"}}
	})
	require.NoError(t, err)
	r := newTestRouter(t, func(wamp.URI) (auth.Caller, error) { return callers, nil })

	hello := &wamp.Hello{
		Realm: "nexus.test.dynamic",
		Details: wamp.Dict{
			"authid":   "root",
			"authrole": "admin",
			"authextra": wamp.Dict{
				"authid":              "root",
				auth.ProxyAuthIDKey:   "root",
				auth.ProxyAuthRoleKey: "admin",
			},
		},
	}
	welcome := requireWelcome(t, r.Hello(context.Background(), hello, Attachment{TrustedProxy: true}))
	require.Equal(t, "user", wamp.OptionString(welcome.Details, "authrole"))
	require.NotEqual(t, "root", wamp.OptionString(welcome.Details, "authid"))
	require.Equal(t, "nexus.test.dynamic", wamp.OptionString(welcome.Details, "realm"))
	require.Equal(t, "anonymous", wamp.OptionString(welcome.Details, "authmethod"))
}

func TestHelloDynamicTimeout(t *testing.T) {
	defer leaktest.Check(t)()

	callers := client.NewLocalCaller(logger)
	err := callers.Register(testAuthenticator, func(ctx context.Context, args wamp.List, kwargs wamp.Dict) *client.InvokeResult {
		<-ctx.Done()
		return nil
	})
	require.NoError(t, err)
	r := newTestRouter(t, func(wamp.URI) (auth.Caller, error) { return callers, nil })

	start := time.Now()
	msg := r.Hello(context.Background(), &wamp.Hello{Realm: "nexus.test.dynamic"}, Attachment{})
	requireAbort(t, msg, wamp.ErrAuthenticationFailed)
	require.Less(t, int64(time.Since(start)), int64(2*time.Second))
}

func TestHelloDynamicNoCallers(t *testing.T) {
	r := newTestRouter(t, nil)

	abort := requireAbort(t, r.Hello(context.Background(), &wamp.Hello{Realm: "nexus.test.dynamic"}, Attachment{}),
		wamp.ErrAuthenticationFailed)
	require.Contains(t, wamp.OptionString(abort.Details, "message"), "invalid authentication configuration")
}

func TestNewRouterErrors(t *testing.T) {
	_, err := NewRouter(testConfig(), nil, nil)
	require.Error(t, err, "expected error for nil logger")

	config := testConfig()
	config.RealmConfigs[0].Anonymous.Type = "bogus"
	_, err = NewRouter(config, nil, logger)
	require.Error(t, err)

	config = testConfig()
	config.RealmConfigs[1].URI = testRealm
	_, err = NewRouter(config, nil, logger)
	require.EqualError(t, err, "realm already exists: "+string(testRealm))

	config = testConfig()
	config.RealmConfigs[0].URI = "Nexus.Test"
	config.RealmConfigs[0].StrictURI = true
	_, err = NewRouter(config, nil, logger)
	require.Error(t, err)
}

func TestHasRealmRole(t *testing.T) {
	r := newTestRouter(t, nil)
	require.True(t, r.HasRealm(testRealm))
	require.False(t, r.HasRealm("nexus.nowhere"))
	require.True(t, r.HasRole(testRealm, "user"))
	require.False(t, r.HasRole(testRealm, "admin"))
	require.False(t, r.HasRole("nexus.nowhere", "user"))
}

const yamlConfig = `
hello_timeout: 2s
debug: true
realms:
  - uri: realm1
    roles: [guest, user]
    anonymous:
      type: static
      role: guest
  - uri: realm2
    roles: [user]
    anonymous:
      type: dynamic
      authenticator: com.example.authenticate
      authenticator-realm: auth
`

const jsonConfig = `{
  "realms": [
    {
      "uri": "realm1",
      "roles": ["guest"],
      "anonymous_proxy": {"type": "static", "authid": "edge", "role": "guest"}
    }
  ]
}`

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "nexus.yaml", yamlConfig))
	require.NoError(t, err)
	require.Equal(t, Duration(2*time.Second), config.HelloTimeout)
	require.True(t, config.Debug)
	require.Len(t, config.RealmConfigs, 2)
	require.Equal(t, auth.ModeStatic, config.RealmConfigs[0].Anonymous.Type)
	require.Equal(t, "guest", config.RealmConfigs[0].Anonymous.Role)
	dyn := config.RealmConfigs[1].Anonymous
	require.Equal(t, auth.ModeDynamic, dyn.Type)
	require.Equal(t, wamp.URI("com.example.authenticate"), dyn.Authenticator)
	require.Equal(t, wamp.URI("auth"), dyn.AuthenticatorRealm)

	_, err = NewRouter(config, nil, logger)
	require.NoError(t, err)
}

func TestLoadConfigJSON(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "nexus.json", jsonConfig))
	require.NoError(t, err)
	require.Len(t, config.RealmConfigs, 1)
	proxy := config.RealmConfigs[0].AnonymousProxy
	require.NotNil(t, proxy)
	require.Equal(t, "edge", proxy.AuthID)

	r, err := NewRouter(config, nil, logger)
	require.NoError(t, err)
	hello := &wamp.Hello{
		Realm:   "realm1",
		Details: wamp.Dict{"authmethods": []string{"anonymous-proxy"}},
	}
	welcome := requireWelcome(t, r.Hello(context.Background(), hello, Attachment{TrustedProxy: true}))
	require.Equal(t, "edge", wamp.OptionString(welcome.Details, "authid"))
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "bad.yaml", "realms:\n  - uri: realm1\n    anonymous:\n      type: bogus\n"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bad.yaml", "hello_timeout: soon\n"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "empty.json", "{}"))
	require.Error(t, err, "config without realms should be rejected")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
