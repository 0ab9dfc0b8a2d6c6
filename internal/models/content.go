package models

// EstadoNoticia is the publication state of a news item.
type EstadoNoticia string

const (
	NoticiaBorrador  EstadoNoticia = "BORRADOR"
	NoticiaPublicado EstadoNoticia = "PUBLICADO"
	NoticiaOculto    EstadoNoticia = "OCULTO"
)

// Noticia is a news item.
type Noticia struct {
	ID               int64         `json:"id"`
	Titulo           string        `json:"titulo"`
	Slug             string        `json:"slug"`
	Resumen          string        `json:"resumen,omitempty"`
	Contenido        string        `json:"contenido"`
	ImagenURL        string        `json:"imagenUrl,omitempty"`
	FechaPublicacion *string       `json:"fechaPublicacion,omitempty"`
	Estado           EstadoNoticia `json:"estado"`
	Destacado        bool          `json:"destacado"`
	Orden            int           `json:"orden"`
	CreatedAt        string        `json:"createdAt,omitempty"`
}

// NoticiaPayload is sent as multipart form data on create and update.
type NoticiaPayload struct {
	Titulo           string
	Slug             string
	Resumen          string
	Contenido        string
	FechaPublicacion string
	Estado           EstadoNoticia
	Destacado        bool
	Orden            int
	// Imagen is an optional upload; nil keeps the current image.
	Imagen *Upload
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

// EstadoEvento is the lifecycle state of an event.
type EstadoEvento string

const (
	EventoProgramado EstadoEvento = "PROGRAMADO"
	EventoEnCurso    EstadoEvento = "EN_CURSO"
	EventoFinalizado EstadoEvento = "FINALIZADO"
	EventoCancelado  EstadoEvento = "CANCELADO"
)

// CategoriaEvento classifies events on the public calendar.
type CategoriaEvento string

const (
	CategoriaAcademico  CategoriaEvento = "ACADÉMICO"
	CategoriaCultural   CategoriaEvento = "CULTURAL"
	CategoriaDeportes   CategoriaEvento = "DEPORTES"
	CategoriaAdmisiones CategoriaEvento = "ADMISIONES"
	CategoriaAmbiental  CategoriaEvento = "AMBIENTAL"
	CategoriaGeneral    CategoriaEvento = "GENERAL"
)

// Evento is an institutional event.
type Evento struct {
	ID            int64           `json:"id"`
	Titulo        string          `json:"titulo"`
	Resumen       string          `json:"resumen"`
	Descripcion   string          `json:"descripcion,omitempty"`
	FechaInicio   string          `json:"fechaInicio"`
	FechaFin      *string         `json:"fechaFin,omitempty"`
	Lugar         string          `json:"lugar"`
	Estado        EstadoEvento    `json:"estado"`
	Categoria     CategoriaEvento `json:"categoria"`
	ImagenURL     string          `json:"imagenUrl,omitempty"`
	Orden         int             `json:"orden"`
	CreadoEn      string          `json:"creadoEn,omitempty"`
	ActualizadoEn string          `json:"actualizadoEn,omitempty"`
}

// EventoPayload is sent as multipart form data on create and update.
type EventoPayload struct {
	Titulo      string
	Resumen     string
	Descripcion string
	FechaInicio string
	FechaFin    string
	Lugar       string
	Estado      EstadoEvento
	Categoria   CategoriaEvento
	Orden       int
	Imagen      *Upload
}

// Autor is the compact author reference embedded in comments.
type Autor struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// Comentario is a reader comment on a news item or event.
type Comentario struct {
	ID            int64  `json:"id"`
	Contenido     string `json:"contenido"`
	NombreAutor   string `json:"nombreAutor,omitempty"`
	EmailAutor    string `json:"emailAutor,omitempty"`
	Aprobado      bool   `json:"aprobado"`
	CreadoEn      string `json:"creadoEn,omitempty"`
	ActualizadoEn string `json:"actualizadoEn,omitempty"`
	Usuario       *Autor `json:"usuario,omitempty"`
}

// ComentarioPayload creates a comment.
type ComentarioPayload struct {
	Contenido string `json:"contenido" validate:"required,notblank"`
}

// ForoCategoria classifies forum questions.
type ForoCategoria string

const (
	ForoNoticia     ForoCategoria = "NOTICIA"
	ForoEvento      ForoCategoria = "EVENTO"
	ForoAdmision    ForoCategoria = "ADMISION"
	ForoInformacion ForoCategoria = "INFORMACION"
	ForoOtro        ForoCategoria = "OTRO"
)

// ForoEstado is the moderation state of a forum question.
type ForoEstado string

const (
	ForoNueva     ForoEstado = "NUEVA"
	ForoAprobada  ForoEstado = "APROBADA"
	ForoRechazada ForoEstado = "RECHAZADA"
	ForoOculta    ForoEstado = "OCULTA"
)

// ForoPregunta is a forum question. Estado and AutorEmail are only
// populated by the admin endpoints.
type ForoPregunta struct {
	ID              string        `json:"id"`
	Titulo          string        `json:"titulo"`
	Contenido       string        `json:"contenido"`
	Categoria       ForoCategoria `json:"categoria"`
	AutorNombre     string        `json:"autorNombre"`
	CreatedAt       string        `json:"createdAt"`
	RespuestasCount int           `json:"respuestasCount"`
	RespuestaAdmin  string        `json:"respuestaAdmin,omitempty"`
	ReferenciaID    *int64        `json:"referenciaId,omitempty"`
	Estado          ForoEstado    `json:"estado,omitempty"`
	AutorEmail      string        `json:"autorEmail,omitempty"`
}

// ForoPreguntaPayload creates or updates a forum question. Estado and
// RespuestaAdmin are honored only on the admin endpoints.
type ForoPreguntaPayload struct {
	Titulo         string        `json:"titulo,omitempty" validate:"required,notblank,max=200"`
	Contenido      string        `json:"contenido,omitempty" validate:"required,notblank"`
	Categoria      ForoCategoria `json:"categoria,omitempty" validate:"required"`
	ReferenciaID   *int64        `json:"referenciaId,omitempty"`
	Estado         ForoEstado    `json:"estado,omitempty"`
	RespuestaAdmin string        `json:"respuestaAdmin,omitempty"`
}

// EstadoRespuesta is the moderation state of a forum answer.
type EstadoRespuesta string

const (
	RespuestaPendiente EstadoRespuesta = "PENDIENTE"
	RespuestaAprobada  EstadoRespuesta = "APROBADA"
	RespuestaRechazada EstadoRespuesta = "RECHAZADA"
	RespuestaOculta    EstadoRespuesta = "OCULTA"
)

// RespuestaForo is an answer to a forum question.
type RespuestaForo struct {
	ID            int64           `json:"id"`
	Contenido     string          `json:"contenido"`
	Estado        EstadoRespuesta `json:"estado"`
	PreguntaID    string          `json:"preguntaId"`
	CreadoEn      string          `json:"creadoEn"`
	ActualizadoEn string          `json:"actualizadoEn"`
	AutorNombre   string          `json:"autorNombre"`
	AutorEmail    string          `json:"autorEmail,omitempty"`
	UsuarioID     *int64          `json:"usuarioId,omitempty"`
}

// RespuestaPayload creates a forum answer.
type RespuestaPayload struct {
	Contenido  string `json:"contenido" validate:"required,notblank"`
	PreguntaID string `json:"preguntaId" validate:"required"`
}

// UsuarioCreate is the admin payload for creating a user.
type UsuarioCreate struct {
	Nombres     string `json:"nombres" validate:"required,notblank,max=150"`
	Apellidos   string `json:"apellidos" validate:"required,notblank,max=150"`
	Email       string `json:"email" validate:"required,email,max=150"`
	Contrasena  string `json:"contrasena" validate:"required,min=6"`
	Contrasena2 string `json:"-" validate:"eqfield=Contrasena"`
	Rol         Rol    `json:"rol,omitempty" validate:"omitempty,oneof=ADMIN STAFF PUBLICO"`
	Activo      *bool  `json:"activo,omitempty"`
}

// UsuarioUpdate is the admin payload for editing a user; empty fields are
// left unchanged by the API.
type UsuarioUpdate struct {
	Nombres     string `json:"nombres,omitempty" validate:"omitempty,max=150"`
	Apellidos   string `json:"apellidos,omitempty" validate:"omitempty,max=150"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Contrasena  string `json:"contrasena,omitempty" validate:"omitempty,min=6"`
	Contrasena2 string `json:"-" validate:"eqfield=Contrasena"`
	Rol         Rol    `json:"rol,omitempty" validate:"omitempty,oneof=ADMIN STAFF PUBLICO"`
	Activo      *bool  `json:"activo,omitempty"`
}
