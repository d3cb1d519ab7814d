package models

import "time"

// OperationLog journal des opérations d'écriture sur l'API
type OperationLog struct {
	ID            uint        `gorm:"primaryKey" json:"id,omitempty" bson:"-"`
	Method        string      `gorm:"size:10" json:"method" bson:"method"`
	Path          string      `gorm:"size:255;index" json:"path" bson:"path"`
	OperatorID    string      `gorm:"size:40;index" json:"operator_id" bson:"operatorId"`
	OperatorName  string      `gorm:"size:100" json:"operator_name" bson:"operatorName"`
	OperatorRole  string      `gorm:"size:20" json:"operator_role" bson:"operatorRole"`
	RequestBody   interface{} `gorm:"type:text;serializer:json" json:"request_body" bson:"requestBody"`
	ResponseData  interface{} `gorm:"type:text;serializer:json" json:"response_data" bson:"responseData"`
	StatusCode    int         `json:"status_code" bson:"statusCode"`
	Success       bool        `json:"success" bson:"success"`
	ErrorMessage  string      `gorm:"type:text" json:"error_message,omitempty" bson:"errorMessage,omitempty"`
	OperationTime time.Time   `gorm:"index" json:"operation_time" bson:"operationTime"`
	ResponseTime  int64       `json:"response_time" bson:"responseTime"` // millisecondes
	IPAddress     string      `gorm:"size:64" json:"ip_address" bson:"ipAddress"`
	UserAgent     string      `gorm:"size:255" json:"user_agent" bson:"userAgent"`
}
