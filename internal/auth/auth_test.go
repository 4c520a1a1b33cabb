package auth

import (
	"context"
	"testing"

	"github.com/playasoft/camp-registration-api/internal/config"
	"github.com/playasoft/camp-registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHandleMe(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(&models.User{})

	user := models.User{
		DiscordID:        "123456",
		Username:         "testuser",
		Email:            "test@example.com",
		Avatar:           "avatar_url",
		Role:             models.RoleStaff,
		FirstName:        "Test",
		LastName:         "User",
		Phone:            "555-0100",
		EmergencyContact: "Someone 555-0101",
	}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db, nil)

	t.Run("Authenticated", func(t *testing.T) {
		token, _ := handler.GenerateToken(user.ID)
		input := &MeRequest{}
		input.Cookie = "auth_token=" + token

		resp, err := handler.HandleMe(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}

		if resp.Body.Username != user.Username {
			t.Errorf("expected username %s, got %s", user.Username, resp.Body.Username)
		}
		if resp.Body.Role != models.RoleStaff {
			t.Errorf("expected staff role, got %s", resp.Body.Role)
		}
		if resp.Body.EmergencyContact != user.EmergencyContact {
			t.Errorf("expected emergency contact %s, got %s", user.EmergencyContact, resp.Body.EmergencyContact)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		input := &MeRequest{}
		_, err := handler.HandleMe(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})
}

func TestHandleUpdateProfile(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(&models.User{})

	user := models.User{DiscordID: "654321", Username: "newbie"}
	db.Create(&user)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db, nil)
	token, _ := handler.GenerateToken(user.ID)

	input := &UpdateProfileRequest{}
	input.Cookie = "auth_token=" + token
	input.Body.FirstName = "Dusty"
	input.Body.LastName = "Doe"
	input.Body.Phone = "555-0100"
	input.Body.EmergencyContact = "Jo 555-0101"

	if _, err := handler.HandleUpdateProfile(context.Background(), input); err != nil {
		t.Fatalf("HandleUpdateProfile returned error: %v", err)
	}

	var updated models.User
	db.First(&updated, user.ID)
	if updated.FirstName != "Dusty" || updated.EmergencyContact != "Jo 555-0101" {
		t.Errorf("profile not persisted: %+v", updated)
	}
}
