package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go-firestore-deals/internal/config"
	"go-firestore-deals/internal/database"
	model "go-firestore-deals/internal/model"
	commentRepository "go-firestore-deals/internal/repository/comment"
	dealRepository "go-firestore-deals/internal/repository/deal"
	"go-firestore-deals/internal/repository/helper"
	userRepository "go-firestore-deals/internal/repository/user"

	Firestore "firebase.google.com/go/v4"

	"google.golang.org/api/option"
)

// Firestore rejects write batches above this size.
const maxBatchWrites = 500

type seed struct {
	Users    []model.UserProfile `json:"users"`
	Deals    []model.Deal        `json:"deals"`
	Comments []model.Comment     `json:"comments"`
}

func main() {

	seedFile := flag.String("seed", "./seed/deals.json", "json file with users, deals and comments to load")
	dumpUser := flag.String("dump-user", "", "write the profile of this user id to <id>.json instead of seeding")
	flag.Parse()

	cnf := config.LoadConfigOrPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
	firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Store)
	defer firestoreClient.Close()

	if *dumpUser != "" {
		if err := saveUserAsJson(ctx, userRepository.New(firestoreClient), *dumpUser); err != nil {
			panic(err)
		}
		return
	}

	if err := readSeedFromJsonAndSaveToFirestore(ctx, firestoreClient, *seedFile); err != nil {
		panic(err)
	}
}

func createFirestoreAppOrPanic(ctx context.Context, cnf config.Firebase) *Firestore.App {
	FirestoreCreds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(FirestoreCreds)
	app, err := Firestore.NewApp(ctx, &Firestore.Config{ProjectID: cnf.ProjectId}, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *Firestore.App, cnf config.Store) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, cnf.Timeout, cnf.MaxInQuery)
}

func saveUserAsJson(ctx context.Context, userRepo userRepository.IRepository, userId string) error {
	p, err := userRepo.GetById(ctx, userId)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("user %s does not exist", userId)
	}

	jsonData, err := json.MarshalIndent(*p, "", "    ")
	if err != nil {
		fmt.Println("Error marshalling JSON:", err)
		return err
	}

	return os.WriteFile(fmt.Sprintf("%s.json", userId), jsonData, 0o644)
}

func readSeedFromJsonAndSaveToFirestore(ctx context.Context, db database.Client, filePath string) error {
	jsonFile, err := os.Open(filePath)
	if err != nil {
		fmt.Println("Error opening JSON file:", err)
		return err
	}
	defer jsonFile.Close()

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		fmt.Println("Error reading JSON file:", err)
		return err
	}

	var s seed
	if err := json.Unmarshal(byteValue, &s); err != nil {
		fmt.Println("Error unmarshalling JSON:", err)
		return err
	}

	writes, err := toBatch(s)
	if err != nil {
		return err
	}

	for i, chunk := range helper.Chunk(writes, maxBatchWrites) {
		if err := db.SetDocs(ctx, chunk); err != nil {
			fmt.Printf("Error saving batch %d to Firestore: %v\n", i, err)
			return err
		}
	}

	fmt.Printf("Seeded %d users, %d deals and %d comments.\n", len(s.Users), len(s.Deals), len(s.Comments))
	return nil
}

func toBatch(s seed) ([]database.DataBatch, error) {
	writes := make([]database.DataBatch, 0, len(s.Users)+len(s.Deals)+len(s.Comments))

	for _, u := range s.Users {
		if u.Id == "" {
			return nil, fmt.Errorf("seed user without id: %s", u.Email)
		}
		if u.SavedDeals == nil {
			u.SavedDeals = []string{}
		}
		writes = append(writes, database.DataBatch{Collection: userRepository.UsersNode, ID: u.Id, Data: u})
	}
	for _, d := range s.Deals {
		if d.Id == "" {
			return nil, fmt.Errorf("seed deal without id: %s", d.ProductText)
		}
		writes = append(writes, database.DataBatch{Collection: dealRepository.DealsNode, ID: d.Id, Data: d})
	}
	for _, c := range s.Comments {
		if c.Id == "" {
			return nil, fmt.Errorf("seed comment without id on item %s", c.ItemID)
		}
		writes = append(writes, database.DataBatch{Collection: commentRepository.CommentsNode, ID: c.Id, Data: c})
	}
	return writes, nil
}
