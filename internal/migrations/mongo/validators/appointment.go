package validators

import "go.mongodb.org/mongo-driver/bson"

var AppointmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"doctor_id",
			"patient_id",
			"date",
			"time_of_day",
			"kind",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"doctor_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"patient_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"time_of_day": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"kind": bson.M{
				"bsonType": "string",
				"enum":     []string{"booked", "blocked"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
