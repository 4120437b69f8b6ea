package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicLinkRoundTrip(t *testing.T) {
	s := &awsS3{bucket: "calories", region: "ap-southeast-1"}

	link := s.GetPublicLinkKey("shared-foods/abc.png")
	assert.Equal(t, "https://calories.s3.ap-southeast-1.amazonaws.com/shared-foods/abc.png", link)
	assert.Equal(t, "shared-foods/abc.png", s.GetObjectKeyFromLink(link))
	assert.Empty(t, s.GetObjectKeyFromLink("https://elsewhere.example.com/abc.png"))
}

func TestCheckExtension(t *testing.T) {
	ext, err := checkExtension("Photo.JPG", AllowImage)
	assert.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = checkExtension("notes.txt", AllowImage)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestDisabledStorage(t *testing.T) {
	s := &awsS3{}
	_, err := s.PutObject(context.Background(), "exports/x.json", []byte("[]"), "application/json")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, s.DeleteFile("x"), ErrStorageDisabled)
}
