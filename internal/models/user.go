package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
}

// UserResponse is the public shape of a user: id plus email, nothing else.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Response() UserResponse {
	return UserResponse{ID: u.ID.Hex(), Email: u.Email}
}
