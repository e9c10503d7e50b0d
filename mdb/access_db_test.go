//go:build database

package mdb

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type accessTestSuite struct {
	AccessTestSuite
}

func TestAccessSuite(t *testing.T) {
	suite.Run(t, new(accessTestSuite))
}

func (suite *accessTestSuite) TestPing() {
	suite.NoError(suite.access.Ping())
}

func (suite *accessTestSuite) TestContext() {
	suite.Require().NotNil(suite.access.Context())
}

func (suite *accessTestSuite) TestCollectionExists() {
	_, err := suite.access.CollectionExists("")
	suite.Error(err)
	exists, err := suite.access.CollectionExists("no-such-collection")
	suite.Require().NoError(err)
	suite.False(exists)
	suite.ConnectCollection(testCollection)
	exists, err = suite.access.CollectionExists(testCollection.Name)
	suite.Require().NoError(err)
	suite.True(exists)
}
