package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	BundlesCollection     *mongo.Collection
	PlansCollection       *mongo.Collection
	PurchasesCollection   *mongo.Collection
	TransactionCollection *mongo.Collection
	SMSLogCollection      *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "tipsdb"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database(dbName).Collection("users")
	BundlesCollection = Client.Database(dbName).Collection("bundles")
	PlansCollection = Client.Database(dbName).Collection("plans")
	PurchasesCollection = Client.Database(dbName).Collection("purchases")
	TransactionCollection = Client.Database(dbName).Collection("transactions")
	SMSLogCollection = Client.Database(dbName).Collection("smslog")
}
