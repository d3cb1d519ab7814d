package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/france-ecoenergie/crm_back/models"
	"github.com/france-ecoenergie/crm_back/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/gorm"
)

// ApiOperationLogsCollection collection du journal d'audit
const ApiOperationLogsCollection = "apiOperationLogs"

var (
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
)

// InitMongoDB connecte le journal d'audit à MongoDB
func InitMongoDB(ctx context.Context, uri, dbName string) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connexion MongoDB échouée: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping MongoDB échoué: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(dbName)

	idx := mongo.IndexModel{Keys: bson.D{{Key: "operationTime", Value: -1}}}
	if _, err := mongoDB.Collection(ApiOperationLogsCollection).Indexes().CreateOne(ctx, idx); err != nil {
		utils.Logger.Warn().Err(err).Msg("création de l'index du journal d'audit échouée")
	}

	utils.Logger.Info().Str("database", dbName).Msg("journal d'audit connecté à MongoDB")
	return nil
}

// CloseMongoDB ferme la connexion MongoDB
func CloseMongoDB(ctx context.Context) {
	if mongoClient == nil {
		return
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("déconnexion MongoDB échouée")
		return
	}
	mongoClient, mongoDB = nil, nil
	utils.Logger.Info().Msg("MongoDB déconnecté")
}

// MongoEnabled indique si le journal d'audit est stocké dans MongoDB
func MongoEnabled() bool {
	return mongoDB != nil
}

// SaveOperationLog enregistre une entrée d'audit (MongoDB si configuré, sinon table SQL)
func SaveOperationLog(ctx context.Context, log *models.OperationLog) error {
	if MongoEnabled() {
		_, err := ExecuteDbOperation(func() (interface{}, error) {
			return mongoDB.Collection(ApiOperationLogsCollection).InsertOne(ctx, log)
		}, 3)
		return err
	}
	return WithContext(ctx).Create(log).Error
}

// ListOperationLogs liste les entrées d'audit, plus récentes en premier
func ListOperationLogs(ctx context.Context, path string, offset, limit int) ([]models.OperationLog, int64, error) {
	logs := make([]models.OperationLog, 0)

	if MongoEnabled() {
		coll := mongoDB.Collection(ApiOperationLogsCollection)
		filter := bson.M{}
		if path != "" {
			filter["path"] = bson.M{"$regex": "^" + regexp.QuoteMeta(path)}
		}
		total, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		opts := options.Find().
			SetSort(bson.M{"operationTime": -1}).
			SetSkip(int64(offset)).
			SetLimit(int64(limit))
		cursor, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return nil, 0, err
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &logs); err != nil {
			return nil, 0, err
		}
		return logs, total, nil
	}

	query := func() *gorm.DB {
		q := WithContext(ctx).Model(&models.OperationLog{})
		if path != "" {
			q = q.Where("path LIKE ?", path+"%")
		}
		return q
	}
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query().Order("operation_time DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ExecuteDbOperation exécute une opération MongoDB avec nouvelles tentatives
func ExecuteDbOperation(operation func() (interface{}, error), retries int) (interface{}, error) {
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("opération MongoDB échouée (%d/%d)", i+1, retries)

		if !isRetryableError(err) {
			break
		}
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	return nil, lastErr
}

// isRetryableError indique si l'erreur MongoDB peut être retentée
func isRetryableError(err error) bool {
	retryableCodes := map[int]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotWritablePrimary
		13436: true, // NotPrimaryNoSecondaryOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[int(cmdErr.Code)]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	return isNetworkError(err)
}

// isNetworkError détecte les erreurs réseau courantes
func isNetworkError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	for _, ne := range []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"server selection error",
	} {
		if strings.Contains(errMsg, ne) {
			return true
		}
	}
	return false
}
