// Package router 路由层的集成测试
// 使用假身份提供商和内存假存储走完注册、登录、笔记和文件的完整流程
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/cloudnotes/internal/database"
	"github.com/weiwangfds/cloudnotes/internal/service/identity"
	"github.com/weiwangfds/cloudnotes/internal/service/storage"
	"github.com/weiwangfds/cloudnotes/internal/service/telemetry"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// 测试用确认码，与假身份服务约定
const testConfirmCode = "000000"

// fakeAccount 假身份服务内的账号状态
type fakeAccount struct {
	sub       string
	password  string
	firstName string
	lastName  string
	confirmed bool
}

// fakeIdentity 假身份提供商，内存维护账号和令牌
type fakeIdentity struct {
	accounts map[string]*fakeAccount
	tokens   map[string]string // 访问令牌 -> 邮箱
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: make(map[string]*fakeAccount),
		tokens:   make(map[string]string),
	}
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	if _, exists := f.accounts[email]; exists {
		return "", errors.New("account already exists")
	}
	sub := "sub-" + email
	f.accounts[email] = &fakeAccount{
		sub:       sub,
		password:  password,
		firstName: firstName,
		lastName:  lastName,
	}
	return sub, nil
}

func (f *fakeIdentity) ConfirmSignUp(ctx context.Context, email, code string) error {
	account, exists := f.accounts[email]
	if !exists || code != testConfirmCode {
		return errors.New("invalid confirmation code")
	}
	account.confirmed = true
	return nil
}

func (f *fakeIdentity) Login(ctx context.Context, email, password string) (*identity.Tokens, error) {
	account, exists := f.accounts[email]
	if !exists || !account.confirmed || account.password != password {
		return nil, errors.New("invalid credentials")
	}
	token := "token-" + email
	f.tokens[token] = email
	return &identity.Tokens{
		IDToken:      "id-" + email,
		AccessToken:  token,
		RefreshToken: "refresh-" + email,
		ExpiresIn:    3600,
	}, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, accessToken string) (*identity.Profile, error) {
	email, ok := f.tokens[accessToken]
	if !ok {
		return nil, errors.New("invalid access token")
	}
	account := f.accounts[email]
	return &identity.Profile{
		ExternalID: account.sub,
		Email:      email,
		FirstName:  account.firstName,
		LastName:   account.lastName,
	}, nil
}

func (f *fakeIdentity) ForgotPassword(ctx context.Context, email string) error {
	if _, exists := f.accounts[email]; !exists {
		return errors.New("account not found")
	}
	return nil
}

func (f *fakeIdentity) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	account, exists := f.accounts[email]
	if !exists || code != testConfirmCode {
		return errors.New("invalid confirmation code")
	}
	account.password = newPassword
	return nil
}

// fakeStorage 内存假存储
type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) UploadFile(ctx context.Context, objectKey string, reader io.Reader, contentType string, metadata map[string]string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[objectKey] = data
	return nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	return nil
}

func (f *fakeStorage) ListFiles(ctx context.Context, prefix string, maxKeys int) ([]storage.FileInfo, error) {
	var infos []storage.FileInfo
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.FileInfo{
				Key:          key,
				Size:         int64(len(data)),
				LastModified: time.Now(),
			})
		}
	}
	return infos, nil
}

func (f *fakeStorage) ObjectURL(objectKey string) string {
	return "https://bucket.example.com/" + objectKey
}

func (f *fakeStorage) TestConnection(ctx context.Context) error {
	return nil
}

// setupRouter 构建完整的测试路由
func setupRouter(t *testing.T) (*Router, *fakeIdentity, *fakeStorage) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	provider := newFakeIdentity()
	store := newFakeStorage()
	r := NewRouter(db, provider, store, telemetry.NewNoopSink())
	return r, provider, store
}

// doJSON 发送JSON请求并返回响应
func doJSON(r *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(w, req)
	return w
}

// loginResponse 登录响应体
type loginResponse struct {
	Message string          `json:"message"`
	Tokens  identity.Tokens `json:"tokens"`
	User    struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"user"`
}

// registerAndLogin 注册、确认并登录一个用户，返回访问令牌
func registerAndLogin(t *testing.T, r *Router, email string) string {
	w := doJSON(r, "POST", "/auth/register", "", map[string]string{
		"email":     email,
		"password":  "Passw0rd!",
		"firstName": "Alice",
		"lastName":  "Liddell",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registerBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerBody))
	// userId是身份服务分配的用户标识
	require.Equal(t, "sub-"+email, registerBody["userId"])

	w = doJSON(r, "POST", "/auth/confirm", "", map[string]string{
		"email":            email,
		"confirmationCode": testConfirmCode,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Tokens.IDToken)
	require.NotEmpty(t, login.Tokens.AccessToken)
	require.NotEmpty(t, login.Tokens.RefreshToken)
	require.NotEmpty(t, login.User.ID)
	require.Equal(t, email, login.User.Email)
	return login.Tokens.AccessToken
}

// TestHealth 测试健康检查接口
func TestHealth(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestAuthFlow 测试注册、确认、登录和档案读取的完整流程
func TestAuthFlow(t *testing.T) {
	r, _, _ := setupRouter(t)
	token := registerAndLogin(t, r, "alice@x.com")

	w := doJSON(r, "GET", "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile database.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "alice@x.com", profile.Email)
	assert.Equal(t, "Alice", profile.FirstName)
}

// TestConfirmWrongCode 测试错误确认码
func TestConfirmWrongCode(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, "POST", "/auth/register", "", map[string]string{
		"email":    "alice@x.com",
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/auth/confirm", "", map[string]string{
		"email":            "alice@x.com",
		"confirmationCode": "999999",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestRegisterDuplicateEmail 测试重复注册同一邮箱返回400
func TestRegisterDuplicateEmail(t *testing.T) {
	r, _, _ := setupRouter(t)

	body := map[string]string{
		"email":    "alice@x.com",
		"password": "Passw0rd!",
	}
	w := doJSON(r, "POST", "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestLoginUnconfirmed 测试未确认账号无法登录
func TestLoginUnconfirmed(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, "POST", "/auth/register", "", map[string]string{
		"email":    "alice@x.com",
		"password": "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "alice@x.com",
		"password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestResetPasswordFlow 测试密码重置后新密码可登录
func TestResetPasswordFlow(t *testing.T) {
	r, _, _ := setupRouter(t)
	registerAndLogin(t, r, "alice@x.com")

	w := doJSON(r, "POST", "/auth/forgot-password", "", map[string]string{
		"email": "alice@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/auth/reset-password", "", map[string]string{
		"email":            "alice@x.com",
		"confirmationCode": testConfirmCode,
		"newPassword":      "N3wPassw0rd!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "alice@x.com",
		"password": "N3wPassw0rd!",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 旧密码失效
	w = doJSON(r, "POST", "/auth/login", "", map[string]string{
		"email":    "alice@x.com",
		"password": "Passw0rd!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestNotesCRUD 测试笔记的完整增删改查流程
func TestNotesCRUD(t *testing.T) {
	r, _, _ := setupRouter(t)
	token := registerAndLogin(t, r, "alice@x.com")

	// 未认证访问返回401
	w := doJSON(r, "GET", "/notes", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 初始列表为空
	w = doJSON(r, "GET", "/notes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []database.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Empty(t, notes)

	// 创建笔记
	w = doJSON(r, "POST", "/notes", token, map[string]string{
		"title":   "购物清单",
		"content": "牛奶、鸡蛋",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created database.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// 空标题返回400
	w = doJSON(r, "POST", "/notes", token, map[string]string{
		"title":   "",
		"content": "内容",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 读取单条
	w = doJSON(r, "GET", "/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 更新
	w = doJSON(r, "PUT", "/notes/"+created.ID, token, map[string]string{
		"title": "周末购物清单",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated database.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "周末购物清单", updated.Title)
	assert.Equal(t, "牛奶、鸡蛋", updated.Content)

	// 删除
	w = doJSON(r, "DELETE", "/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestNotesForeignAccess 测试跨用户访问笔记返回404
func TestNotesForeignAccess(t *testing.T) {
	r, _, _ := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice@x.com")
	bobToken := registerAndLogin(t, r, "bob@x.com")

	w := doJSON(r, "POST", "/notes", aliceToken, map[string]string{
		"title":   "私密笔记",
		"content": "内容",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created database.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, "GET", "/notes/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, "DELETE", "/notes/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bob的列表里看不到Alice的笔记
	w = doJSON(r, "GET", "/notes", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []database.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	assert.Empty(t, notes)
}

// uploadTestFile 通过HTTP上传一个测试文件
func uploadTestFile(t *testing.T, r *Router, token, filename, content string) map[string]interface{} {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/files/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

// TestFilesFlow 测试文件上传、列表和删除流程
func TestFilesFlow(t *testing.T) {
	r, _, store := setupRouter(t)
	token := registerAndLogin(t, r, "alice@x.com")

	// 未携带文件返回400
	w := doJSON(r, "POST", "/files/upload", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	result := uploadTestFile(t, r, token, "notes.txt", "file-content")
	key, _ := result["Key"].(string)
	require.NotEmpty(t, key)
	assert.Equal(t, "notes.txt", result["originalName"])
	assert.Equal(t, store.ObjectURL(key), result["Location"])

	// 列表包含刚上传的文件
	w = doJSON(r, "GET", "/files", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, key, entries[0]["key"])
	assert.Equal(t, store.ObjectURL(key), entries[0]["url"])

	// 删除，对象键URL编码后作为路径参数
	req := httptest.NewRequest("DELETE", "/files/"+url.PathEscape(key), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	w = doJSON(r, "GET", "/files", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Empty(t, entries)
}

// TestFilesForeignDelete 测试删除他人文件返回403
func TestFilesForeignDelete(t *testing.T) {
	r, _, store := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice@x.com")
	bobToken := registerAndLogin(t, r, "bob@x.com")

	result := uploadTestFile(t, r, aliceToken, "secret.txt", "alice-only")
	key, _ := result["Key"].(string)
	require.NotEmpty(t, key)

	req := httptest.NewRequest("DELETE", "/files/"+url.PathEscape(key), nil)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	rec := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 文件仍然存在
	_, exists := store.objects[key]
	assert.True(t, exists)
}

// TestFilesIsolation 测试文件列表按用户隔离
func TestFilesIsolation(t *testing.T) {
	r, _, _ := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice@x.com")
	bobToken := registerAndLogin(t, r, "bob@x.com")

	uploadTestFile(t, r, aliceToken, "a.txt", "alice")
	uploadTestFile(t, r, bobToken, "b.txt", "bob")

	w := doJSON(r, "GET", "/files", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	keyValue := fmt.Sprintf("%v", entries[0]["key"])
	assert.True(t, strings.HasPrefix(keyValue, "users/"))
}
