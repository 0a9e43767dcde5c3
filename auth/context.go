package auth

import "github.com/gin-gonic/gin"

const identityKey = "identity"

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// CurrentIdentity returns the identity placed by the auth middleware.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
