package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionDefaults(t *testing.T) {
	for _, target := range []string{"", "  ", "localhost"} {
		o, err := ParseConnection(target)
		require.NoError(t, err)
		assert.Equal(t, []string{"localhost:6379"}, o.Addrs)
		assert.Nil(t, o.TLSConfig)
	}
}

func TestParseConnectionOptions(t *testing.T) {
	o, err := ParseConnection("cache1:6380, cache2 ,password=s3cr=t,user=app,defaultDatabase=3," +
		"connectTimeout=1500,syncTimeout=250,ssl=true,allowAdmin=true,name=web")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache1:6380", "cache2:6379"}, o.Addrs)
	assert.Equal(t, "s3cr=t", o.Password)
	assert.Equal(t, "app", o.Username)
	assert.Equal(t, "web", o.ClientName)
	assert.Equal(t, 3, o.DB)
	assert.Equal(t, 1500*time.Millisecond, o.DialTimeout)
	assert.Equal(t, 250*time.Millisecond, o.ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, o.WriteTimeout)
	require.NotNil(t, o.TLSConfig)
	assert.Equal(t, "cache1", o.TLSConfig.ServerName)
}

func TestParseConnectionIPv6(t *testing.T) {
	o, err := ParseConnection("[::1]")
	require.NoError(t, err)
	assert.Equal(t, []string{"[::1]:6379"}, o.Addrs)
}

func TestParseConnectionURL(t *testing.T) {
	o, err := ParseConnection("redis://user:pw@example.com:6390/2")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com:6390"}, o.Addrs)
	assert.Equal(t, "user", o.Username)
	assert.Equal(t, "pw", o.Password)
	assert.Equal(t, 2, o.DB)
}

func TestParseConnectionErrors(t *testing.T) {
	for _, target := range []string{
		"localhost,bogus=1",
		"localhost,defaultDatabase=x",
		"localhost,ssl=maybe",
		"localhost,connectTimeout=soon",
		"redis://host:notaport",
	} {
		_, err := ParseConnection(target)
		assert.Error(t, err, target)
	}
}
