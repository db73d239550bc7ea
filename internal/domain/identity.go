package domain

// Identity es el resultado del autorizador: un usuario conocido o anonimo.
type Identity struct {
	user  User
	known bool
}

func KnownIdentity(user User) Identity {
	return Identity{user: user, known: true}
}

func AnonymousIdentity() Identity {
	return Identity{}
}

// User devuelve el usuario y true solo para identidades conocidas.
func (i Identity) User() (User, bool) {
	return i.user, i.known
}

func (i Identity) IsAnonymous() bool {
	return !i.known
}
