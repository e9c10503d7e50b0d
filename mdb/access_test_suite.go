package mdb

import (
	"github.com/stretchr/testify/suite"
)

const AccessTestDBname = "db-test"

// AccessTestSuite connects to a test database at the MONGO_* environment target
// and drops that database when done.
// Set DBName to keep suites in different packages from sharing a database
// since packages may be tested in parallel, AccessTestDBname is used if empty.
type AccessTestSuite struct {
	suite.Suite
	DBName string
	access *Access
}

func (suite *AccessTestSuite) Access() *Access {
	return suite.access
}

func (suite *AccessTestSuite) SetupSuite() {
	target, err := TargetFromEnv()
	suite.Require().NoError(err, "connection target")
	suite.SetupSuiteConfig(&Config{Options: target.ClientOptions()})
}

func (suite *AccessTestSuite) SetupSuiteConfig(config *Config) {
	var err error
	if suite.DBName == "" {
		suite.DBName = AccessTestDBname
	}
	suite.access, err = Connect(suite.DBName, config)
	suite.Require().NoError(err, "connect to mongo")
	suite.access.Info("Suite setup")
}

func (suite *AccessTestSuite) TearDownSuite() {
	suite.access.Info("Suite teardown")
	suite.NoError(suite.access.Database().Drop(suite.access.Context()), "drop test database")
	suite.NoError(suite.access.Disconnect(), "disconnect from mongo")
}

// ConnectCollection connects to the specified collection and adds any provided indexes
// as necessary in a SetupSuite() with test checks so that any errors blow up the test.
func (suite *AccessTestSuite) ConnectCollection(
	definition *CollectionDefinition, indexDescriptions ...*IndexDescription) *Collection {
	collection, err := ConnectCollection(suite.access, definition)
	suite.Require().NoError(err)
	suite.NotNil(collection)
	suite.Require().NoError(collection.DeleteAll())
	for _, indexDescription := range indexDescriptions {
		suite.Require().NoError(suite.access.Index(collection, indexDescription))
	}
	return collection
}

// ConnectTypedCollectionHelper is similar to AccessTestSuite.ConnectionCollection().
// Go doesn't support generic methods so this can't be a method on AccessTestSuite.
func ConnectTypedCollectionHelper[T any](
	suite *AccessTestSuite, definition *CollectionDefinition, indexDescriptions ...*IndexDescription) *TypedCollection[T] {
	collection, err := ConnectTypedCollection[T](suite.access, definition)
	suite.Require().NoError(err)
	suite.NotNil(collection)
	suite.Require().NoError(collection.DeleteAll())
	for _, indexDescription := range indexDescriptions {
		suite.Require().NoError(suite.access.Index(&collection.Collection, indexDescription))
	}
	return collection
}
