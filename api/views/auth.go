package views

import (
	"net/url"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type LoginView struct {
	Shell
	Email string
	Next  string
	Error string
}

func LoginPage(v LoginView) Node {
	v.Title = "Log in"
	return layout(v.Shell,
		H1(Text("Log in")),
		formError(v.Error),
		Form(Method("post"), Action(withNext("/login", v.Next)),
			Label(Text("Email"), Input(Type("email"), Name("email"), Value(v.Email), Required(), Attr("autocomplete", "email"))),
			Label(Text("Password"), Input(Type("password"), Name("password"), Required(), Attr("autocomplete", "current-password"))),
			nextField(v.Next),
			Button(Type("submit"), Text("Log in")),
		),
		P(Text("No account yet? "), A(Href(withNext("/register", v.Next)), Text("Register"))),
	)
}

type RegisterView struct {
	Shell
	Username   string
	Email      string
	Role       string
	Next       string
	Error      string
	AllowAdmin bool
}

func RegisterPage(v RegisterView) Node {
	v.Title = "Register"

	var roleField Node
	if v.AllowAdmin {
		roleField = Label(Text("Role"), Select(Name("role"),
			option("adopter", "Adopter", v.Role),
			option("admin", "Admin", v.Role),
		))
	}

	return layout(v.Shell,
		H1(Text("Create an account")),
		formError(v.Error),
		Form(Method("post"), Action(withNext("/register", v.Next)),
			Label(Text("Username"), Input(Type("text"), Name("username"), Value(v.Username), Required(), Attr("maxlength", "80"))),
			Label(Text("Email"), Input(Type("email"), Name("email"), Value(v.Email), Required(), Attr("maxlength", "120"))),
			Label(Text("Password"), Input(Type("password"), Name("password"), Required(), Attr("autocomplete", "new-password"))),
			roleField,
			nextField(v.Next),
			Button(Type("submit"), Text("Register")),
		),
		P(Text("Already registered? "), A(Href(withNext("/login", v.Next)), Text("Log in"))),
	)
}

func nextField(next string) Node {
	if next == "" {
		return nil
	}
	return Input(Type("hidden"), Name("next"), Value(next))
}

func withNext(path, next string) string {
	if next == "" {
		return path
	}
	return path + "?next=" + url.QueryEscape(next)
}
